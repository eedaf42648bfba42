// Package models defines the data structures for the investment projection engine.
package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// RatioState tags the three possible outcomes of a ratio computation.
type RatioState string

const (
	RatioFinite    RatioState = "finite"
	RatioInfinite  RatioState = "infinite"
	RatioUndefined RatioState = "undefined"
)

// Ratio is a division result with explicit sentinel states. ROE with zero
// capital deployed and DSCR without a mortgage are represented as tagged
// values instead of raw NaN/Inf so downstream formatting stays explicit.
type Ratio struct {
	state RatioState
	value float64
}

// FiniteRatio wraps a computed finite value.
func FiniteRatio(v float64) Ratio {
	return Ratio{state: RatioFinite, value: v}
}

// InfiniteRatio is the sentinel for division by zero with a positive numerator,
// and for DSCR when there is no debt service at all.
func InfiniteRatio() Ratio {
	return Ratio{state: RatioInfinite}
}

// UndefinedRatio is the sentinel for division results with no meaningful
// value: 0/0, and losses against a zero denominator.
func UndefinedRatio() Ratio {
	return Ratio{state: RatioUndefined}
}

// DivideRatio computes num/den with sentinel guards instead of NaN/Inf.
// Only a positive numerator over zero is infinite; zero or negative
// numerators over zero are undefined, so a loss against zero capital never
// reports the same sentinel as a gain.
func DivideRatio(num, den float64) Ratio {
	if den == 0 {
		if num > 0 {
			return InfiniteRatio()
		}
		return UndefinedRatio()
	}
	return FiniteRatio(num / den)
}

// State returns the tag of the ratio.
func (r Ratio) State() RatioState { return r.state }

// IsFinite reports whether the ratio holds a usable numeric value.
func (r Ratio) IsFinite() bool { return r.state == RatioFinite }

// Value returns the numeric value and whether it is finite.
func (r Ratio) Value() (float64, bool) {
	return r.value, r.state == RatioFinite
}

// Float returns the numeric value for finite ratios, +Inf for infinite ones
// and NaN for undefined ones. Comparison helpers only; persistence and
// presentation must go through the tagged form.
func (r Ratio) Float() float64 {
	switch r.state {
	case RatioFinite:
		return r.value
	case RatioInfinite:
		return math.Inf(1)
	default:
		return math.NaN()
	}
}

// GreaterThan compares two ratios; infinite beats any finite value and
// undefined compares below everything.
func (r Ratio) GreaterThan(other Ratio) bool {
	if r.state == RatioUndefined {
		return false
	}
	if other.state == RatioUndefined {
		return true
	}
	rf, of := r.Float(), other.Float()
	return rf > of
}

// String renders the ratio for logs and error messages.
func (r Ratio) String() string {
	switch r.state {
	case RatioFinite:
		return fmt.Sprintf("%.6f", r.value)
	case RatioInfinite:
		return "∞"
	default:
		return "undefined"
	}
}

// ratioJSON is the wire form of a Ratio.
type ratioJSON struct {
	State RatioState `json:"state"`
	Value *float64   `json:"value,omitempty"`
}

// MarshalJSON serializes the tagged form.
func (r Ratio) MarshalJSON() ([]byte, error) {
	out := ratioJSON{State: r.state}
	if r.state == RatioFinite {
		v := r.value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the tagged form.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var in ratioJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.State {
	case RatioFinite:
		if in.Value == nil {
			return fmt.Errorf("finite ratio missing value")
		}
		*r = FiniteRatio(*in.Value)
	case RatioInfinite:
		*r = InfiniteRatio()
	case RatioUndefined:
		*r = UndefinedRatio()
	default:
		return fmt.Errorf("unknown ratio state %q", in.State)
	}
	return nil
}
