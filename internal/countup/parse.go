// Package countup animates a number parsed out of display text ("250+",
// "$1.200", "98%") from a start value up to its magnitude, easing out over a
// fixed duration. A Counter restarts its animation every time its surface
// becomes visible again and never lets two runs render at once.
package countup

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// numericText splits display text into prefix, signed number and suffix.
// The prefix can never contain a digit or a sign, so a leading sign always
// binds to the number.
var numericText = regexp.MustCompile(`^([^\d+-]*)([+-]?\d+(?:[.,]\d+)*)(.*)$`)

// Parsed is the decomposition of a display string.
type Parsed struct {
	Prefix    string  `json:"prefix"`
	Magnitude float64 `json:"magnitude"`
	Suffix    string  `json:"suffix"`
}

// Parse extracts the first number from text. Whitespace is removed before
// matching. Separators are disambiguated as follows:
//
//   - both ',' and '.' present: the last one is the decimal mark, the others group digits
//   - one separator kind repeated: grouping only ("1.000.000" is one million)
//   - a single separator: decimal mark ("3,5" is 3.5)
//
// Text without a number parses to the zero Parsed.
func Parse(text string) Parsed {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	m := numericText.FindStringSubmatch(compact)
	if m == nil {
		return Parsed{}
	}

	value, err := strconv.ParseFloat(normalizeNumber(m[2]), 64)
	if err != nil {
		return Parsed{}
	}
	return Parsed{Prefix: m[1], Magnitude: value, Suffix: m[3]}
}

func normalizeNumber(num string) string {
	commas := strings.Count(num, ",")
	dots := strings.Count(num, ".")

	switch {
	case commas > 0 && dots > 0:
		decimalAt := strings.LastIndexAny(num, ".,")
		var b strings.Builder
		for i, r := range num {
			switch {
			case i == decimalAt:
				b.WriteByte('.')
			case r == ',' || r == '.':
			default:
				b.WriteRune(r)
			}
		}
		return b.String()
	case commas > 1:
		return strings.ReplaceAll(num, ",", "")
	case dots > 1:
		return strings.ReplaceAll(num, ".", "")
	default:
		return strings.Replace(num, ",", ".", 1)
	}
}

// Render formats value with a fixed number of decimals between prefix and
// suffix. A value that rounds to zero never renders with a minus sign.
func Render(prefix string, value float64, decimals int, suffix string) string {
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(value, 'f', decimals, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		s = s[1:]
	}
	return prefix + s + suffix
}
