package fixer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"unicode"

	"github.com/valpere/numfix/internal/finder"
	"github.com/valpere/numfix/internal/matcher"
	"github.com/valpere/numfix/internal/replacer"
	"github.com/valpere/numfix/internal/units"
)

// NumberFixer repairs numbers and units of the target sentence.
type NumberFixer struct {
	cfg       Config
	finder    *finder.Finder
	converter *units.Converter
	replacer  *replacer.Replacer
}

func NewNumberFixer(cfg Config, f *finder.Finder, conv *units.Converter, rep *replacer.Replacer) *NumberFixer {
	return &NumberFixer{cfg: cfg, finder: f, converter: conv, replacer: rep}
}

type edit struct {
	start int
	apply func(string) string
}

func (n *NumberFixer) Fix(ctx context.Context, p *Pair) (string, []Mark, error) {
	src, trg, marks, err := n.occurrences(ctx, p)
	if err != nil {
		return p.Target, marks, err
	}
	if len(src) == 0 && len(trg) == 0 {
		return p.Target, marks, nil
	}

	switch {
	case len(src) != len(trg):
		marks = append(marks, MarkDifferentCountNumbers)
	case len(src) == 1:
		marks = append(marks, MarkSingleNumberSentence)
	default:
		marks = append(marks, MarkMultipleNumberSentence)
	}

	var edits []edit
	for _, m := range matcher.Resolve(matcher.Classify(src, trg)) {
		s, t := src[m.Source], trg[m.Target]
		marks = append(marks, TierMark(m.Tier))
		if t.Modifier {
			marks = append(marks, MarkNumbersModifiers)
		}

		apply, ms, err := n.policy(ctx, m.Tier, s, t)
		marks = append(marks, ms...)
		if err != nil {
			return p.Target, marks, err
		}
		if apply != nil {
			edits = append(edits, edit{start: t.Start, apply: apply})
		}
	}

	// Right to left, so offsets of earlier occurrences stay valid.
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	text := p.Target
	for _, e := range edits {
		text = e.apply(text)
	}
	return text, marks, nil
}

// occurrences runs the digit pass on both sentences and the word pass where
// spelled-out numbers are likely.
func (n *NumberFixer) occurrences(ctx context.Context, p *Pair) (src, trg []finder.Result, marks []Mark, err error) {
	src = n.finder.Find(p.Source, p.SourceLang)
	trg = n.finder.Find(p.Target, p.TargetLang)
	if !p.CanLemmatize() {
		return src, trg, nil, nil
	}

	countsDiffer := len(src) != len(trg)
	if countsDiffer || p.SourceLang.HasNumberWords(p.Source) {
		tokens, err := p.SourceTokens(ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		words := n.finder.FindWords(p.Source, p.SourceLang, tokens)
		for range words {
			marks = append(marks, MarkNumberAsWord)
		}
		src = finder.Merge(src, words)
	}
	if countsDiffer || p.TargetLang.HasNumberWords(p.Target) {
		tokens, err := p.TargetTokens(ctx)
		if err != nil {
			return nil, nil, marks, err
		}
		words := n.finder.FindWords(p.Target, p.TargetLang, tokens)
		for range words {
			marks = append(marks, MarkNumberAsWord)
		}
		trg = finder.Merge(trg, words)
	}
	return src, trg, marks, nil
}

func (n *NumberFixer) policy(ctx context.Context, tier matcher.Tier, s, t finder.Result) (func(string) string, []Mark, error) {
	switch tier {
	case matcher.OnlyNumbersSame:
		return nil, nil, nil

	case matcher.SameNumberSameUnit:
		if n.cfg.Mode == ModeRecalculating && !n.inTargetSystems(t.Unit) {
			return n.recalculate(ctx, s, t, s.Unit)
		}
		return n.unifyDialect(t)

	case matcher.HalfUnitSameNumber:
		if n.cfg.Mode != ModeRecalculating {
			return nil, nil, nil
		}
		unit := s.Unit
		if unit == nil {
			unit = t.Unit
		}
		if n.inTargetSystems(unit) {
			return nil, nil, nil
		}
		if s.Scaling == 0 && t.Scaling != 0 && matcher.Equal(s.Number, t.Unscaled()) {
			s.Number *= t.Scaling
			s.Scaling = t.Scaling
		}
		return n.recalculate(ctx, s, t, unit)

	case matcher.OnlyNumbersDifferent:
		return func(text string) string {
			return n.replacer.ReplaceNumber(text, s, t, n.cfg.Target, s.Number)
		}, []Mark{MarkFixed}, nil

	case matcher.SameNumberDifferentUnit:
		if n.recalculating(s.Unit) {
			return n.recalculate(ctx, s, t, s.Unit)
		}
		u := n.correctUnit(s.Number, s.Unit, t)
		return func(text string) string {
			return n.replacer.ReplaceUnit(text, t, u)
		}, []Mark{MarkFixed}, nil

	case matcher.DifferentNumberSameUnit:
		ok, err := n.withinTolerance(ctx, s, t)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			return nil, []Mark{MarkAppliedToleranceRate}, nil
		}
		if n.recalculating(s.Unit) {
			return n.recalculate(ctx, s, t, s.Unit)
		}
		if n.separatorConfusion(s, t) {
			return nil, []Mark{MarkDecimalSeparatorProblem}, nil
		}
		return func(text string) string {
			return n.replacer.ReplaceNumber(text, s, t, n.cfg.Target, s.Number)
		}, []Mark{MarkFixed}, nil

	case matcher.DifferentNumberDifferentUnit:
		ok, err := n.withinTolerance(ctx, s, t)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			return nil, []Mark{MarkAppliedToleranceRate}, nil
		}
		if n.recalculating(s.Unit) {
			return n.recalculate(ctx, s, t, s.Unit)
		}
		u := n.correctUnit(s.Number, s.Unit, t)
		return func(text string) string {
			return n.replacer.ReplaceUnitNumber(text, s, t, n.cfg.Target, s.Number, u)
		}, []Mark{MarkFixed}, nil
	}
	return nil, nil, fmt.Errorf("unknown tier %d", tier)
}

// recalculating reports whether u is converted rather than copied. Units
// without a conversion (calendar years) are always copied.
func (n *NumberFixer) recalculating(u *units.Unit) bool {
	return n.cfg.Mode == ModeRecalculating && n.converter.BaseOf(u.Category).Conversion != nil
}

// inTargetSystems treats units that belong to no system as already converted.
func (n *NumberFixer) inTargetSystems(u *units.Unit) bool {
	systems := u.Category.Systems
	return len(systems) == 0 || n.cfg.TargetSystems.HasAny(systems...)
}

func (n *NumberFixer) query(t finder.Result) units.Query {
	return units.Query{Modifier: t.Modifier, Dialect: n.cfg.Dialect}
}

func (n *NumberFixer) correctUnit(number float64, original *units.Unit, t finder.Result) *units.Unit {
	q := n.query(t)
	q.Category = original.Category
	return n.converter.CorrectUnit(n.cfg.Target, number, original, q)
}

func (n *NumberFixer) recalculate(ctx context.Context, s, t finder.Result, unit *units.Unit) (func(string) string, []Mark, error) {
	number, u, err := n.converter.ConvertNumber(ctx, n.cfg.Target, n.cfg.TargetSystems, s.Number, unit, t.Unit, n.query(t))
	switch {
	case errors.Is(err, units.ErrNoConversion), errors.Is(err, units.ErrIncompatible):
		return nil, []Mark{MarkUnableToRecalculate}, nil
	case err != nil:
		return nil, nil, fmt.Errorf("failed to recalculate %q: %w", t.TextPart, err)
	}
	return func(text string) string {
		return n.replacer.ReplaceUnitNumber(text, s, t, n.cfg.Target, number, u)
	}, []Mark{MarkRecalculated}, nil
}

// unifyDialect swaps a correct unit for the configured dialect's spelling.
func (n *NumberFixer) unifyDialect(t finder.Result) (func(string) string, []Mark, error) {
	d := n.cfg.Dialect
	if d == units.DialectNone || t.Unit.Dialect == units.DialectNone || t.Unit.Dialect == d {
		return nil, nil, nil
	}
	u := n.correctUnit(t.Number, t.Unit, t)
	if u == t.Unit || u.Dialect != d {
		return nil, nil, nil
	}
	return func(text string) string {
		return n.replacer.ReplaceUnit(text, t, u)
	}, []Mark{MarkDialectUnified}, nil
}

// withinTolerance compares both quantities in the source's base category.
// A target that cannot be expressed there is never tolerated.
func (n *NumberFixer) withinTolerance(ctx context.Context, s, t finder.Result) (bool, error) {
	base := n.converter.ToBaseInCategory(s.Unit, s.Number)
	got, err := n.converter.ToBaseInAnotherSystem(ctx, t.Unit, t.Number, s.Unit.Category)
	switch {
	case errors.Is(err, units.ErrNoConversion), errors.Is(err, units.ErrIncompatible):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to check tolerance of %q: %w", t.TextPart, err)
	}

	rate := n.cfg.BaseTolerance
	if s.Approximately {
		rate = n.cfg.ApproximatelyTolerance
	}
	tolerance := math.Abs(base * rate)
	return got >= base-tolerance && got <= base+tolerance, nil
}

// separatorConfusion reports a target numeral that reads as the source
// number under the source language's separators ("1.5 km" left untouched in
// Czech). The separator tool owns that repair.
func (n *NumberFixer) separatorConfusion(s, t finder.Result) bool {
	if s.FromWords() || t.FromWords() {
		return false
	}
	v, err := n.cfg.Source.ParseNumber(leadingNumeral(t.NumberText))
	if err != nil {
		return false
	}
	if t.Scaling != 0 {
		v *= t.Scaling
	}
	return matcher.Equal(v, s.Number)
}

func leadingNumeral(s string) string {
	end := 0
	for i, r := range s {
		sign := i == 0 && (r == '-' || r == '\u2212')
		if !sign && !unicode.IsDigit(r) && r != '.' && r != ',' && r != ' ' && r != '\u00a0' {
			break
		}
		end = i + len(string(r))
	}
	return s[:end]
}
