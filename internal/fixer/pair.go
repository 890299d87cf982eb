package fixer

import (
	"context"
	"fmt"

	"github.com/valpere/numfix/internal/lang"
	"github.com/valpere/numfix/internal/lemma"
)

// Pair is the scratch state of one sentence pair. Lemmas are fetched on first
// use and reused by every tool that runs on the pair. A Pair is not shared
// between goroutines.
type Pair struct {
	Source string
	Target string

	SourceLang *lang.Language
	TargetLang *lang.Language

	lemmatizer lemma.Lemmatizer

	sourceTokens []lemma.Token
	targetTokens []lemma.Token
	sourceDone   bool
	targetDone   bool
}

func NewPair(source, target string, cfg Config, lm lemma.Lemmatizer) *Pair {
	return &Pair{
		Source:     source,
		Target:     target,
		SourceLang: cfg.Source,
		TargetLang: cfg.Target,
		lemmatizer: lm,
	}
}

// CanLemmatize reports whether a lemmatizer is configured.
func (p *Pair) CanLemmatize() bool { return p.lemmatizer != nil }

func (p *Pair) SourceTokens(ctx context.Context) ([]lemma.Token, error) {
	if !p.sourceDone {
		tokens, err := p.lemmatize(ctx, p.Source, p.SourceLang)
		if err != nil {
			return nil, err
		}
		p.sourceTokens, p.sourceDone = tokens, true
	}
	return p.sourceTokens, nil
}

// TargetTokens lemmatizes the current target text. Tools that change the
// target reset the cache through SetTarget.
func (p *Pair) TargetTokens(ctx context.Context) ([]lemma.Token, error) {
	if !p.targetDone {
		tokens, err := p.lemmatize(ctx, p.Target, p.TargetLang)
		if err != nil {
			return nil, err
		}
		p.targetTokens, p.targetDone = tokens, true
	}
	return p.targetTokens, nil
}

// SetTarget replaces the target text between tools.
func (p *Pair) SetTarget(text string) {
	if text == p.Target {
		return
	}
	p.Target = text
	p.targetTokens, p.targetDone = nil, false
}

func (p *Pair) lemmatize(ctx context.Context, text string, l *lang.Language) ([]lemma.Token, error) {
	if p.lemmatizer == nil {
		return nil, nil
	}
	tokens, err := p.lemmatizer.Lemmatize(ctx, text, l)
	if err != nil {
		return nil, fmt.Errorf("failed to lemmatize %s text: %w", l, err)
	}
	return tokens, nil
}
