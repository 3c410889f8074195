package countup

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func ptr[T any](v T) *T { return &v }

func TestEaseOutCubicEndpoints(t *testing.T) {
	if EaseOutCubic(0) != 0 || EaseOutCubic(1) != 1 {
		t.Fatalf("expected easing to map 0->0 and 1->1")
	}
	if got := EaseOutCubic(0.5); math.Abs(got-0.875) > 1e-12 {
		t.Fatalf("expected 0.875 at midpoint, got %f", got)
	}
}

func TestResolveDerivesOnlyMissingFields(t *testing.T) {
	plan := Resolve(Spec{Prefix: ptr("≈")}, "$250+")
	if plan.Target != 250 || plan.Prefix != "≈" || plan.Suffix != "+" {
		t.Fatalf("unexpected plan %+v", plan)
	}
	if plan.Duration != DefaultDuration {
		t.Fatalf("expected default duration, got %s", plan.Duration)
	}

	explicit := Resolve(Spec{Target: ptr(10.0), DecimalPlaces: -2, Duration: 50 * time.Millisecond}, "999 clientes")
	if explicit.Target != 10 || explicit.Prefix != "" || explicit.Suffix != "" {
		t.Fatalf("expected explicit target to skip parsing, got %+v", explicit)
	}
	if explicit.Decimals != 0 {
		t.Fatalf("expected decimals clamped to 0, got %d", explicit.Decimals)
	}
	if explicit.Duration != MinDuration {
		t.Fatalf("expected duration raised to minimum, got %s", explicit.Duration)
	}
}

func TestFrameAtProgression(t *testing.T) {
	plan := Plan{Start: 0, Target: 100, Decimals: 0, Duration: time.Second, Suffix: "+"}

	if f := plan.FrameAt(0); f.Text != "0+" || f.Final {
		t.Fatalf("unexpected first frame %+v", f)
	}
	if f := plan.FrameAt(500 * time.Millisecond); f.Text != "88+" || f.Final {
		t.Fatalf("unexpected mid frame %+v", f)
	}
	if f := plan.FrameAt(-time.Second); f.Value != 0 {
		t.Fatalf("expected negative elapsed clamped, got %+v", f)
	}
	last := plan.FrameAt(3 * time.Second)
	if !last.Final || last.Value != 100 || last.Text != "100+" {
		t.Fatalf("unexpected final frame %+v", last)
	}
}

func TestFinalFrameMatchesTargetProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("final frame renders the exact target", prop.ForAll(
		func(start, target float64, decimals int, durMs int) bool {
			plan := Resolve(Spec{
				StartValue:    start,
				Target:        ptr(target),
				DecimalPlaces: decimals,
				Duration:      time.Duration(durMs) * time.Millisecond,
			}, "")
			f := plan.FrameAt(plan.Duration)
			return f.Final && f.Value == target && f.Text == Render("", target, decimals, "")
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
		gen.IntRange(0, 6),
		gen.IntRange(1, 5000),
	))

	properties.Property("values stay between start and target", prop.ForAll(
		func(start, target float64, elapsedMs int) bool {
			plan := Plan{Start: start, Target: target, Duration: time.Second}
			v := plan.FrameAt(time.Duration(elapsedMs) * time.Millisecond).Value
			lo, hi := math.Min(start, target), math.Max(start, target)
			return v >= lo-1e-9 && v <= hi+1e-9
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
		gen.IntRange(0, 2000),
	))

	properties.TestingRun(t)
}
