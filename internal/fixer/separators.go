package fixer

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/valpere/numfix/internal/lang"
)

// SeparatorFixer rewrites numerals the translation copied with the source
// language's decimal and thousands separators.
type SeparatorFixer struct {
	source, target *lang.Language
	numbers        *regexp.Regexp
}

func NewSeparatorFixer(cfg Config) *SeparatorFixer {
	ts := regexp.QuoteMeta(cfg.Source.ThousandsSeparator)
	ds := regexp.QuoteMeta(cfg.Source.DecimalSeparator)
	return &SeparatorFixer{
		source: cfg.Source,
		target: cfg.Target,
		numbers: regexp.MustCompile(
			`(?:^|[^0-9` + ts + ds + `])` +
				`(?P<number>\d+(?:(?:` + ts + `| )\d{3})*` + ds + `\d+|\d+(?:(?:` + ts + `| )\d{3})+)` +
				`(?:\.$|,? ?[^0-9]|$)`),
	}
}

func (f *SeparatorFixer) Fix(_ context.Context, p *Pair) (string, []Mark, error) {
	if f.source.DecimalSeparator == f.target.DecimalSeparator {
		return p.Target, nil, nil
	}

	text := p.Target
	var marks []Mark
	for _, m := range f.numbers.FindAllStringSubmatch(p.Source, -1) {
		number := m[1]
		at := f.locate(text, number)
		if at < 0 {
			marks = append(marks, MarkSeparatorsCorrect)
			continue
		}

		replacement, mark := f.swap(number), MarkSwappedSeparators
		if clock, ok := f.asTime(p.Source, number); ok {
			replacement, mark = clock, MarkDecimalPointAsTime
		}
		text = text[:at] + replacement + text[at+len(number):]
		marks = append(marks, mark)
	}
	return text, marks, nil
}

// locate finds number written verbatim in the target, not glued to other
// target-language digits or separators.
func (f *SeparatorFixer) locate(text, number string) int {
	ts := regexp.QuoteMeta(f.target.ThousandsSeparator)
	ds := regexp.QuoteMeta(f.target.DecimalSeparator)
	re := regexp.MustCompile(`(?:^|[^0-9` + ts + ds + `])(` + regexp.QuoteMeta(number) + `)(?:\.$|,? ?[^0-9,.]|$)`)
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return -1
	}
	return loc[2]
}

func (f *SeparatorFixer) swap(number string) string {
	var b strings.Builder
	for _, r := range number {
		switch s := string(r); {
		case s == f.source.DecimalSeparator:
			b.WriteString(f.target.DecimalSeparator)
		case s == f.source.ThousandsSeparator || r == ' ':
			b.WriteString(f.target.GroupSeparator)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// asTime turns "5.30" into "5:30" when the source reads it as a time of day.
func (f *SeparatorFixer) asTime(source, number string) (string, bool) {
	hours, minutes, ok := strings.Cut(number, f.source.DecimalSeparator)
	if !ok || len(minutes) != 2 {
		return "", false
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(number) + `\s?(am|pm|a\.m\.|p\.m\.)`)
	if !re.MatchString(source) {
		return "", false
	}
	h, err1 := strconv.Atoi(hours)
	m, err2 := strconv.Atoi(minutes)
	if err1 != nil || err2 != nil || h > 12 || m >= 60 {
		return "", false
	}
	return hours + ":" + minutes, true
}
