// Package replacer rewrites number and unit occurrences inside a sentence.
package replacer

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/valpere/numfix/internal/finder"
	"github.com/valpere/numfix/internal/lang"
	"github.com/valpere/numfix/internal/units"
)

type Replacer struct {
	registry *units.Registry
}

func New(r *units.Registry) *Replacer {
	return &Replacer{registry: r}
}

// ReplaceUnit keeps the numeral of trg and swaps its unit for u.
func (r *Replacer) ReplaceUnit(sentence string, trg finder.Result, u *units.Unit) string {
	return splice(sentence, trg, r.render(trg.NumberText, u, trg.Modifier))
}

// ReplaceNumber writes n in place of trg's numeral, rounded to the precision
// of src and keeping trg's unit as written.
func (r *Replacer) ReplaceNumber(sentence string, src, trg finder.Result, l *lang.Language, n float64) string {
	text := numberText(Round(src.Number, n), src, trg, l)
	return splice(sentence, trg, strings.Replace(trg.TextPart, trg.NumberText, text, 1))
}

// ReplaceUnitNumber rewrites trg as n of unit u.
func (r *Replacer) ReplaceUnitNumber(sentence string, src, trg finder.Result, l *lang.Language, n float64, u *units.Unit) string {
	text := numberText(Round(src.Number, n), src, trg, l)
	return splice(sentence, trg, r.render(text, u, trg.Modifier))
}

func (r *Replacer) render(number string, u *units.Unit, modifier bool) string {
	switch {
	case u.BeforeNumber && utf8.RuneCountInString(u.Word) == 1:
		return u.Word + number
	case u.BeforeNumber:
		return u.Word + " " + number
	case modifier && u.Language == lang.English:
		return number + "-" + r.singular(u).Word
	case u.FollowsNumberDirectly():
		return number + u.Word
	}
	return number + " " + u.Word
}

// singular finds the form used in "900-mile".
func (r *Replacer) singular(u *units.Unit) *units.Unit {
	return r.registry.CorrectUnit(u.Language, 1, u, units.Query{Category: u.Category, Modifier: true})
}

// splice replaces trg inside sentence. Offsets are used when they still
// point at trg's text, otherwise the first occurrence is replaced. Only the
// spaces at the seams of the fragment are collapsed.
func splice(sentence string, trg finder.Result, fragment string) string {
	start, end := trg.Start, trg.End
	if trg.TextPart == "" || end > len(sentence) || start > end || sentence[start:end] != trg.TextPart {
		start = strings.Index(sentence, trg.TextPart)
		if trg.TextPart == "" || start < 0 {
			return sentence
		}
		end = start + len(trg.TextPart)
	}

	prefix, suffix := sentence[:start], sentence[end:]
	if strings.HasSuffix(prefix, " ") {
		fragment = strings.TrimLeft(fragment, " ")
	}
	if fragment == "" && strings.HasSuffix(prefix, " ") {
		suffix = strings.TrimLeft(suffix, " ")
	}
	if strings.HasSuffix(fragment, " ") {
		suffix = strings.TrimLeft(suffix, " ")
	}
	return prefix + fragment + suffix
}

// numberText formats n, putting a scale word back when either side was
// written with one. An unchanged number keeps the source's scale.
func numberText(n float64, src, trg finder.Result, l *lang.Language) string {
	if src.Scaling == 0 && trg.Scaling == 0 {
		return l.FormatNumber(n)
	}

	scale := l.LargestScaleBelow(n)
	if src.Scaling != 0 && n == src.Number {
		scale = src.Scaling
	}
	if scale == 0 {
		return l.FormatNumber(n)
	}

	divided := n / scale
	word, ok := l.ScaleWord(scale, divided)
	if !ok {
		return l.FormatNumber(n)
	}
	return l.FormatNumber(divided) + " " + word
}

// SignificantDigits counts the digits of n that carry information, plus one
// guard digit. Trailing zeros do not count.
func SignificantDigits(n float64) int {
	s := strconv.FormatFloat(math.Abs(n), 'f', -1, 64)
	digits := 0
	for _, c := range s {
		if c >= '0' && c <= '9' {
			digits++
		}
	}
	for i := len(s) - 1; i >= 0; i-- {
		switch {
		case s[i] == '.':
			continue
		case s[i] == '0':
			digits--
			continue
		}
		return digits + 1
	}
	return digits
}

// Round rounds n to as many significant digits as reference has.
func Round(reference, n float64) float64 {
	valid := SignificantDigits(reference)
	if valid <= 0 || n == 0 {
		return n
	}

	integerDigits := int(math.Floor(math.Log10(math.Abs(n)))) + 1
	if valid <= integerDigits {
		p := math.Pow(10, float64(integerDigits-valid))
		return math.Round(n/p) * p
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(n, 'f', valid-integerDigits, 64), 64)
	if err != nil {
		return n
	}
	return rounded
}
