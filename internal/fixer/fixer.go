// Package fixer post-edits machine-translated sentence pairs: it repairs
// mistranslated numbers, units and separators and labels every pair with
// diagnostic marks.
package fixer

import (
	"context"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/valpere/numfix/internal/finder"
	"github.com/valpere/numfix/internal/lemma"
	"github.com/valpere/numfix/internal/replacer"
	"github.com/valpere/numfix/internal/units"
)

// Tool is one fixing step. It returns the new target text and its marks.
type Tool interface {
	Fix(ctx context.Context, p *Pair) (string, []Mark, error)
}

// LanguageValidator reports whether text is written in lang.
type LanguageValidator interface {
	IsValid(text, lang string) (bool, error)
}

type Result struct {
	Text    string
	Marks   []Mark
	Changed bool
}

type Fixer struct {
	cfg        Config
	tools      []Tool
	lemmatizer lemma.Lemmatizer
	validator  LanguageValidator
}

type Option func(*Fixer)

// WithLemmatizer enables the spelled-out number pass.
func WithLemmatizer(lm lemma.Lemmatizer) Option {
	return func(f *Fixer) { f.lemmatizer = lm }
}

// WithLanguageValidator enables the language guard when cfg.CheckLanguages is set.
func WithLanguageValidator(v LanguageValidator) Option {
	return func(f *Fixer) { f.validator = v }
}

// New builds a Fixer. rates may be nil, in which case currencies are never
// recalculated.
func New(cfg Config, reg *units.Registry, rates units.RateProvider, opts ...Option) (*Fixer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Fixer{cfg: cfg}
	for _, opt := range opts {
		opt(f)
	}

	for _, name := range cfg.Tools {
		switch name {
		case ToolSeparators:
			f.tools = append(f.tools, NewSeparatorFixer(cfg))
		case ToolUnits:
			f.tools = append(f.tools, NewNumberFixer(cfg, finder.New(reg), units.NewConverter(reg, rates), replacer.New(reg)))
		default:
			return nil, fmt.Errorf("%w: unknown tool %q", ErrInvalidConfig, name)
		}
	}
	return f, nil
}

func (f *Fixer) Config() Config { return f.cfg }

// Fix runs the configured tools over one pair. On error the original
// translation is returned with the marks collected so far and EXCEPTION.
// A pair that needs no change comes back byte-identical.
func (f *Fixer) Fix(ctx context.Context, source, translated string) (Result, error) {
	if f.cfg.CheckLanguages && f.validator != nil && !f.languagesMatch(source, translated) {
		return Result{Text: translated, Marks: []Mark{MarkWrongLanguage}}, nil
	}

	target := norm.NFC.String(translated)
	p := NewPair(norm.NFC.String(source), target, f.cfg, f.lemmatizer)

	var marks []Mark
	for _, tool := range f.tools {
		if err := ctx.Err(); err != nil {
			return Result{Text: translated, Marks: append(marks, MarkException)}, err
		}
		text, ms, err := tool.Fix(ctx, p)
		marks = append(marks, ms...)
		if err != nil {
			return Result{Text: translated, Marks: append(marks, MarkException)}, fmt.Errorf("failed to fix pair: %w", err)
		}
		p.SetTarget(text)
	}

	if p.Target == target {
		return Result{Text: translated, Marks: marks}, nil
	}
	return Result{Text: p.Target, Marks: marks, Changed: true}, nil
}

func (f *Fixer) languagesMatch(source, translated string) bool {
	if ok, _ := f.validator.IsValid(source, f.cfg.Source.Code); !ok {
		return false
	}
	ok, _ := f.validator.IsValid(translated, f.cfg.Target.Code)
	return ok
}
