package finder

import (
	"fmt"

	"github.com/valpere/numfix/internal/units"
)

// Result is one number occurrence found in a sentence. Results are built once
// by the finder and treated as read-only afterwards.
type Result struct {
	// Number is delocalized and already multiplied by Scaling.
	Number        float64
	Unit          *units.Unit
	Approximately bool
	// TextPart is the verbatim match: numeral, scale word and unit.
	TextPart string
	// Scaling is the value of the scale word that followed the numeral, or 0.
	Scaling float64
	// NumberAsString is the spelled-out numeral of a word-path match.
	NumberAsString string
	// NumberText is the numeral as written, scale word included.
	NumberText string
	// Modifier marks English number-modifiers such as "900-mile".
	Modifier bool
	// Start and End are byte offsets of TextPart in the sentence.
	Start, End int
}

func (r Result) HasUnit() bool { return r.Unit != nil }

// Unscaled is the number before the scale word was applied.
func (r Result) Unscaled() float64 {
	if r.Scaling != 0 {
		return r.Number / r.Scaling
	}
	return r.Number
}

// FromWords reports whether the numeral was spelled out.
func (r Result) FromWords() bool { return r.NumberAsString != "" }

func (r Result) String() string {
	if r.Unit == nil {
		return fmt.Sprintf("%v %q", r.Number, r.TextPart)
	}
	return fmt.Sprintf("%v %s %q", r.Number, r.Unit.Category.ID, r.TextPart)
}
