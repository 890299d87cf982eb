// Package batch fixes many sentence pairs concurrently.
package batch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/valpere/numfix/internal/fixer"
	"github.com/valpere/numfix/internal/store"
)

// PairFixer fixes one pair; *fixer.Fixer satisfies it.
type PairFixer interface {
	Fix(ctx context.Context, source, translated string) (fixer.Result, error)
	Config() fixer.Config
}

// Memory serves previously fixed pairs; *store.Store satisfies it.
type Memory interface {
	GetCachedFix(ctx context.Context, key store.FixKey) (string, []string, bool, error)
	SaveFix(ctx context.Context, key store.FixKey, fixed string, marks []string) error
}

const maxLine = 1024 * 1024

type Config struct {
	Workers int
	// Timeout bounds a single pair; zero means no limit.
	Timeout time.Duration
}

type Pair struct {
	Source string
	Target string
}

// Outcome is the result for the pair at Index in the input.
type Outcome struct {
	Index  int
	Pair   Pair
	Result fixer.Result
	Err    error
	Cached bool
}

type Summary struct {
	Outcomes []Outcome
	Marks    map[fixer.Mark]int
	Changed  int
	Failed   int
	Cached   int
	// MemoryErrors collects fix-memory failures; they never fail a pair.
	MemoryErrors []error
}

type Runner struct {
	fixer  PairFixer
	memory Memory
	config Config
}

type Option func(*Runner)

// WithMemory serves repeated pairs from m and records new fixes in it.
func WithMemory(m Memory) Option {
	return func(r *Runner) { r.memory = m }
}

func New(f PairFixer, config Config, opts ...Option) *Runner {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	r := &Runner{fixer: f, config: config}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run fixes pairs with at most Workers in flight. Outcomes keep input order
// and an error in one pair never affects another.
func (r *Runner) Run(ctx context.Context, pairs []Pair) *Summary {
	summary := &Summary{
		Outcomes: make([]Outcome, len(pairs)),
		Marks:    make(map[fixer.Mark]int),
	}

	type outcomeChan struct {
		out       Outcome
		memoryErr error
	}

	results := make(chan outcomeChan, len(pairs))
	sem := make(chan struct{}, r.config.Workers)

	var wg sync.WaitGroup
	for i, p := range pairs {
		wg.Add(1)
		go func(index int, pair Pair) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results <- outcomeChan{out: Outcome{
					Index:  index,
					Pair:   pair,
					Result: fixer.Result{Text: pair.Target, Marks: []fixer.Mark{fixer.MarkException}},
					Err:    ctx.Err(),
				}}
				return
			}

			out, memErr := r.fixOne(ctx, index, pair)
			results <- outcomeChan{out: out, memoryErr: memErr}
		}(i, p)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for rc := range results {
		o := rc.out
		summary.Outcomes[o.Index] = o
		if rc.memoryErr != nil {
			summary.MemoryErrors = append(summary.MemoryErrors, rc.memoryErr)
		}
		for _, m := range o.Result.Marks {
			summary.Marks[m]++
		}
		switch {
		case o.Err != nil:
			summary.Failed++
		case o.Result.Changed:
			summary.Changed++
		}
		if o.Cached {
			summary.Cached++
		}
	}

	return summary
}

func (r *Runner) fixOne(ctx context.Context, index int, pair Pair) (Outcome, error) {
	out := Outcome{Index: index, Pair: pair}
	key := r.key(pair)

	var memErr error
	if r.memory != nil {
		fixed, marks, found, err := r.memory.GetCachedFix(ctx, key)
		switch {
		case err != nil:
			memErr = fmt.Errorf("failed to read fix memory: %w", err)
		case found:
			out.Cached = true
			out.Result = fixer.Result{
				Text:    fixed,
				Marks:   append(toMarks(marks), fixer.MarkCached),
				Changed: fixed != pair.Target,
			}
			return out, nil
		}
	}

	pairCtx := ctx
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		pairCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	out.Result, out.Err = r.fixer.Fix(pairCtx, pair.Source, pair.Target)
	if out.Err != nil || r.memory == nil {
		return out, memErr
	}

	if err := r.memory.SaveFix(ctx, key, out.Result.Text, fromMarks(out.Result.Marks)); err != nil {
		memErr = errors.Join(memErr, fmt.Errorf("failed to write fix memory: %w", err))
	}
	return out, memErr
}

func (r *Runner) key(p Pair) store.FixKey {
	cfg := r.fixer.Config()
	return store.FixKey{
		Source:     p.Source,
		Target:     p.Target,
		SourceLang: cfg.Source.Code,
		TargetLang: cfg.Target.Code,
		Mode:       string(cfg.Mode),
	}
}

func toMarks(ss []string) []fixer.Mark {
	marks := make([]fixer.Mark, 0, len(ss)+1)
	for _, s := range ss {
		marks = append(marks, fixer.Mark(s))
	}
	return marks
}

func fromMarks(marks []fixer.Mark) []string {
	ss := make([]string, len(marks))
	for i, m := range marks {
		ss[i] = string(m)
	}
	return ss
}

// StringMarks converts mark counts for storage.
func (s *Summary) StringMarks() map[string]int {
	out := make(map[string]int, len(s.Marks))
	for m, n := range s.Marks {
		out[string(m)] = n
	}
	return out
}

// ReadPairs reads tab-separated "source<TAB>target" lines, skipping the first
// offset pairs and returning at most limit (0 means all). Quotes are literal
// text, so the input is not read as CSV.
func ReadPairs(r io.Reader, offset, limit int) ([]Pair, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var pairs []Pair
	line, seen := 0, 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		source, target, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: expected source and target separated by a tab", line)
		}
		seen++
		if seen <= offset {
			continue
		}
		// Extra columns are ignored.
		target, _, _ = strings.Cut(target, "\t")
		pairs = append(pairs, Pair{Source: source, Target: target})
		if limit > 0 && len(pairs) == limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pairs: %w", err)
	}
	return pairs, nil
}

// WriteResults writes one fixed translation per line in input order.
func WriteResults(w io.Writer, outcomes []Outcome) error {
	for _, o := range outcomes {
		if _, err := fmt.Fprintln(w, o.Result.Text); err != nil {
			return fmt.Errorf("failed to write result %d: %w", o.Index, err)
		}
	}
	return nil
}
