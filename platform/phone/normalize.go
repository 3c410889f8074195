// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when a number carries no international prefix.
const DefaultRegion = "CO"

// DigitsOnly strips every non-digit character from input.
func DigitsOnly(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CountDigits returns how many ASCII digits input contains.
func CountDigits(input string) int {
	n := 0
	for _, r := range input {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}
	if region == "" {
		region = DefaultRegion
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// FormatInternational renders a valid number for display ("+57 300 1234567").
// Invalid input is returned trimmed.
func FormatInternational(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if region == "" {
		region = DefaultRegion
	}
	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}

// WhatsAppLink returns a wa.me click-to-chat link for a valid number, or "" when
// the number cannot be parsed.
func WhatsAppLink(input, region string) string {
	e164 := NormalizeE164(input, region)
	if !strings.HasPrefix(e164, "+") {
		return ""
	}
	return "https://wa.me/" + strings.TrimPrefix(e164, "+")
}
