package countup

import (
	"math"
	"time"
)

const (
	// DefaultDuration is used when a Spec leaves Duration unset.
	DefaultDuration = 1200 * time.Millisecond
	// MinDuration is the shortest animation a counter will run.
	MinDuration = 200 * time.Millisecond
	// DefaultThreshold is the visible fraction that starts a run.
	DefaultThreshold = 0.5
)

// Spec configures one counter. Nil Target, Prefix and Suffix are derived from
// the source text the first time the counter is activated.
type Spec struct {
	Duration      time.Duration
	StartValue    float64
	DecimalPlaces int
	Target        *float64
	Prefix        *string
	Suffix        *string
}

// Plan is a fully resolved animation run.
type Plan struct {
	Prefix   string
	Suffix   string
	Start    float64
	Target   float64
	Decimals int
	Duration time.Duration
}

// Frame is one rendered update.
type Frame struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
	Final bool    `json:"final"`
}

// Resolve builds the Plan for spec, parsing source only for the fields the
// caller did not supply.
func Resolve(spec Spec, source string) Plan {
	plan := Plan{
		Start:    spec.StartValue,
		Decimals: spec.DecimalPlaces,
		Duration: spec.Duration,
	}
	if plan.Decimals < 0 {
		plan.Decimals = 0
	}
	if plan.Duration <= 0 {
		plan.Duration = DefaultDuration
	}
	if plan.Duration < MinDuration {
		plan.Duration = MinDuration
	}

	var parsed Parsed
	if spec.Target == nil {
		parsed = Parse(source)
		plan.Target = parsed.Magnitude
	} else {
		plan.Target = *spec.Target
	}

	if spec.Prefix != nil {
		plan.Prefix = *spec.Prefix
	} else {
		plan.Prefix = parsed.Prefix
	}
	if spec.Suffix != nil {
		plan.Suffix = *spec.Suffix
	} else {
		plan.Suffix = parsed.Suffix
	}
	return plan
}

// EaseOutCubic maps elapsed fraction p in [0,1] to 1-(1-p)^3.
func EaseOutCubic(p float64) float64 {
	return 1 - math.Pow(1-p, 3)
}

// Progress returns the clamped elapsed fraction of the run.
func (p Plan) Progress(elapsed time.Duration) float64 {
	if p.Duration <= 0 {
		return 1
	}
	f := float64(elapsed) / float64(p.Duration)
	return math.Max(0, math.Min(1, f))
}

// FrameAt renders the frame for the given elapsed time. Once the run is
// complete the frame carries Target exactly, never the eased approximation.
func (p Plan) FrameAt(elapsed time.Duration) Frame {
	progress := p.Progress(elapsed)
	if progress >= 1 {
		return Frame{
			Text:  Render(p.Prefix, p.Target, p.Decimals, p.Suffix),
			Value: p.Target,
			Final: true,
		}
	}
	current := p.Start + (p.Target-p.Start)*EaseOutCubic(progress)
	return Frame{
		Text:  Render(p.Prefix, current, p.Decimals, p.Suffix),
		Value: current,
	}
}

// FinalText is the text of the last frame of the run.
func (p Plan) FinalText() string {
	return Render(p.Prefix, p.Target, p.Decimals, p.Suffix)
}
