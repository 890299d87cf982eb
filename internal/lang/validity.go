package lang

import "math"

// Interval is an open interval; NoLow and NoHigh leave that end unbounded.
type Interval struct {
	Low, High     float64
	NoLow, NoHigh bool
}

// Above returns (low, +inf).
func Above(low float64) Interval { return Interval{Low: low, NoHigh: true} }

// Below returns (-inf, high).
func Below(high float64) Interval { return Interval{High: high, NoLow: true} }

func (in Interval) contains(n float64) bool {
	return (in.NoLow || n > in.Low) && (in.NoHigh || n < in.High)
}

// Validity restricts the magnitudes a grammatical form may be used with.
// A non-integer passes only when Fractional is set; an integer passes when it
// is listed in Values or falls strictly inside one of Intervals.
type Validity struct {
	Values     []float64
	Intervals  []Interval
	Fractional bool
}

var (
	Ones        = Validity{Values: []float64{-1, 1}}
	NotOnes     = Validity{Intervals: []Interval{Below(-1), Above(1)}, Fractional: true}
	Paucal      = Validity{Values: []float64{-4, -3, -2, 2, 3, 4}}
	FiveAndMore = Validity{Intervals: []Interval{Below(-4), Above(4)}}
	Decimal     = Validity{Fractional: true}
)

// Accepts reports whether n satisfies the rule.
func (v Validity) Accepts(n float64) bool {
	if n != math.Trunc(n) {
		return v.Fractional
	}
	for _, x := range v.Values {
		if x == n {
			return true
		}
	}
	for _, in := range v.Intervals {
		if in.contains(n) {
			return true
		}
	}
	return false
}

// Union merges rule sets.
func Union(rules ...Validity) *Validity {
	var out Validity
	for _, r := range rules {
		out.Values = append(out.Values, r.Values...)
		out.Intervals = append(out.Intervals, r.Intervals...)
		out.Fractional = out.Fractional || r.Fractional
	}
	return &out
}
