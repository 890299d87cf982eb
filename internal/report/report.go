// Package report renders batch statistics as Markdown or HTML.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/valpere/numfix/internal/batch"
	"github.com/valpere/numfix/internal/fixer"
)

// Change is one pair whose translation was modified.
type Change struct {
	Source string
	Before string
	After  string
	Marks  []fixer.Mark
}

type Report struct {
	Title     string
	RunID     string
	Generated time.Time

	Pairs   int
	Changed int
	Failed  int
	Cached  int
	Marks   map[fixer.Mark]int
	Changes []Change

	printer *message.Printer
	locale  monday.Locale
}

const dateLayout = "2 January 2006 15:04"

// FromSummary builds a report; withChanges lists every modified pair.
func FromSummary(title, runID string, s *batch.Summary, withChanges bool) *Report {
	r := &Report{
		Title:     title,
		RunID:     runID,
		Generated: time.Now(),
		Pairs:     len(s.Outcomes),
		Changed:   s.Changed,
		Failed:    s.Failed,
		Cached:    s.Cached,
		Marks:     s.Marks,
		printer:   message.NewPrinter(language.English),
		locale:    monday.LocaleEnUS,
	}
	if withChanges {
		for _, o := range s.Outcomes {
			if !o.Result.Changed {
				continue
			}
			r.Changes = append(r.Changes, Change{
				Source: o.Pair.Source,
				Before: o.Pair.Target,
				After:  o.Result.Text,
				Marks:  o.Result.Marks,
			})
		}
	}
	return r
}

// SetLanguage localizes number grouping and dates for a BCP 47 code.
// Languages other than Czech and English keep the English defaults.
func (r *Report) SetLanguage(code string) {
	tag, err := language.Parse(code)
	if err != nil {
		return
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	switch base.String() {
	case "cs":
		r.printer = message.NewPrinter(language.Czech)
		r.locale = monday.LocaleCsCZ
	case "en":
		r.printer = message.NewPrinter(tag)
		r.locale = monday.LocaleEnUS
		if region.String() == "GB" {
			r.locale = monday.LocaleEnGB
		}
	}
}

// Markdown renders the totals, a mark table in report order and the changes.
func (r *Report) Markdown() string {
	p := r.printer
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	locale := r.locale
	if locale == "" {
		locale = monday.LocaleEnUS
	}

	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "Number fixing report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run `%s`, generated %s.\n\n", r.RunID, monday.Format(r.Generated, dateLayout, locale))
	}

	b.WriteString("| Total | Count |\n|---|---:|\n")
	p.Fprintf(&b, "| Pairs | %d |\n", r.Pairs)
	p.Fprintf(&b, "| Changed | %d |\n", r.Changed)
	p.Fprintf(&b, "| Failed | %d |\n", r.Failed)
	p.Fprintf(&b, "| Cached | %d |\n\n", r.Cached)

	b.WriteString("## Marks\n\n")
	b.WriteString("| Mark | Count | Share |\n|---|---:|---:|\n")
	for _, m := range fixer.AllMarks {
		n := r.Marks[m]
		if n == 0 {
			continue
		}
		p.Fprintf(&b, "| %s | %d | %.1f%% |\n", m, n, share(n, r.Pairs))
	}

	if len(r.Changes) > 0 {
		b.WriteString("\n## Changes\n\n")
		b.WriteString("| Source | Translation | Fixed | Marks |\n|---|---|---|---|\n")
		for _, c := range r.Changes {
			marks := make([]string, len(c.Marks))
			for i, m := range c.Marks {
				marks[i] = string(m)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				cell(c.Source), cell(c.Before), cell(c.After), strings.Join(marks, ", "))
		}
	}

	return b.String()
}

// HTML renders the Markdown report as a standalone page.
func (r *Report) HTML() string {
	return page(r.Title, ToHTML([]byte(r.Markdown())))
}

// Write saves the report, as HTML when path ends in .html or .htm and as
// Markdown otherwise.
func (r *Report) Write(path string) error {
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		content = r.HTML()
	default:
		content = r.Markdown()
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
