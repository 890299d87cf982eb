// Package matcher pairs number occurrences of a translated sentence with the
// occurrences of its source sentence.
package matcher

import (
	"math"

	"github.com/valpere/numfix/internal/finder"
)

// Tier is the relationship between one source and one target occurrence,
// ordered from the most to the least specific.
type Tier int

const (
	OnlyNumbersSame Tier = iota
	SameNumberSameUnit
	HalfUnitSameNumber
	OnlyNumbersDifferent
	SameNumberDifferentUnit
	DifferentNumberSameUnit
	DifferentNumberDifferentUnit

	tierCount
)

// Tiers lists every tier in resolution order.
func Tiers() []Tier {
	out := make([]Tier, tierCount)
	for i := range out {
		out[i] = Tier(i)
	}
	return out
}

var tierNames = [tierCount]string{
	"only-numbers-same",
	"same-number-same-unit",
	"half-unit-same-number",
	"only-numbers-different",
	"same-number-different-unit",
	"different-number-same-unit",
	"different-number-different-unit",
}

func (t Tier) String() string {
	if t < 0 || t >= tierCount {
		return "unknown"
	}
	return tierNames[t]
}

// Guessing reports whether ambiguity left after the fixpoint is settled by
// taking the first remaining candidate. Tiers where a wrong guess would
// rewrite a correct unit or number stay unmatched.
func (t Tier) Guessing() bool {
	switch t {
	case OnlyNumbersSame, HalfUnitSameNumber, SameNumberDifferentUnit, DifferentNumberDifferentUnit:
		return true
	}
	return false
}

// Relationships holds, per target occurrence and tier, the indices of the
// candidate source occurrences.
type Relationships [][tierCount][]int

// Candidates returns the source indices of target at tier.
func (r Relationships) Candidates(target int, t Tier) []int { return r[target][t] }

// Classify puts every source occurrence into one tier for every target
// occurrence. A pair where only one side has a unit is kept only when the
// numbers agree once scaling is undone.
func Classify(src, trg []finder.Result) Relationships {
	rel := make(Relationships, len(trg))
	for ti, t := range trg {
		for si, s := range src {
			tier, ok := classify(s, t)
			if ok {
				rel[ti][tier] = append(rel[ti][tier], si)
			}
		}
	}
	return rel
}

func classify(s, t finder.Result) (Tier, bool) {
	sameNumber := Equal(s.Number, t.Number)

	switch {
	case !s.HasUnit() && !t.HasUnit():
		if sameNumber {
			return OnlyNumbersSame, true
		}
		return OnlyNumbersDifferent, true

	case s.HasUnit() != t.HasUnit():
		if sameNumber || Equal(s.Unscaled(), t.Number) || Equal(s.Number, t.Unscaled()) ||
			Equal(s.Unscaled(), t.Unscaled()) {
			return HalfUnitSameNumber, true
		}
		return 0, false
	}

	sameUnit := s.Unit.Category == t.Unit.Category
	switch {
	case sameNumber && sameUnit:
		return SameNumberSameUnit, true
	case sameNumber:
		return SameNumberDifferentUnit, true
	case sameUnit:
		return DifferentNumberSameUnit, true
	}
	return DifferentNumberDifferentUnit, true
}

// Equal compares delocalized numbers, allowing for float noise from scaling.
func Equal(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

// Match pairs a target occurrence with the source occurrence it translates.
type Match struct {
	Target int
	Source int
	Tier   Tier
}

// Resolve matches targets to sources tier by tier. Within a tier a target is
// matched when it has exactly one candidate that no other target claims; this
// repeats until nothing changes, then guessing tiers take the first remaining
// candidate. A consumed source is withdrawn from every other target. rel is
// not modified.
func Resolve(rel Relationships) []Match {
	work := make(Relationships, len(rel))
	for i := range rel {
		for t := range rel[i] {
			work[i][t] = append([]int(nil), rel[i][t]...)
		}
	}

	resolved := make([]bool, len(work))
	var matches []Match

	consume := func(target, source int, tier Tier) {
		matches = append(matches, Match{Target: target, Source: source, Tier: tier})
		resolved[target] = true
		for i := range work {
			for t := range work[i] {
				work[i][t] = without(work[i][t], source)
			}
		}
	}

	for _, tier := range Tiers() {
		for {
			uses := make(map[int]int)
			for i := range work {
				if resolved[i] {
					continue
				}
				for _, s := range work[i][tier] {
					uses[s]++
				}
			}

			progress := false
			for i := range work {
				if resolved[i] || len(work[i][tier]) != 1 {
					continue
				}
				if s := work[i][tier][0]; uses[s] == 1 {
					consume(i, s, tier)
					progress = true
					break
				}
			}
			if !progress {
				break
			}
		}

		if !tier.Guessing() {
			continue
		}
		for i := range work {
			if !resolved[i] && len(work[i][tier]) > 0 {
				consume(i, work[i][tier][0], tier)
			}
		}
	}
	return matches
}

func without(xs []int, x int) []int {
	out := xs[:0]
	for _, v := range xs {
		if v != x {
			out = append(out, v)
		}
	}
	return out
}
