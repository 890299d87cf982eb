// Package finder locates number and unit occurrences in a sentence.
package finder

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/valpere/numfix/internal/lang"
	"github.com/valpere/numfix/internal/units"
)

const (
	numberPattern = `\d{1,3}(?:[ \x{a0}.,]\d{3})+(?:[.,]\d+)?|\d+(?:[.,]\d+)?`
	signPattern   = `[-\x{2212}]`
	tailPattern   = `(?:[^\p{L}\p{N}]|$)`
)

type pattern struct {
	re        *regexp.Regexp
	unitAfter *regexp.Regexp
	groups    map[string]int
}

// Finder is safe for concurrent use; its patterns are compiled in New.
type Finder struct {
	registry *units.Registry
	patterns map[string]*pattern
}

func New(r *units.Registry) *Finder {
	f := &Finder{registry: r, patterns: make(map[string]*pattern)}
	for _, l := range lang.Supported() {
		f.patterns[l.Code] = compile(r, l)
	}
	return f
}

func compile(r *units.Registry, l *lang.Language) *pattern {
	num := `(?:` + numberPattern + `)`
	scales := l.ScalePattern()
	unitWords := r.UnitPattern(l)

	alts := []string{
		`(?P<feet>\d+)'\s?(?P<inches>\d+)(?:"|''|″)`,
		`(?P<feet2>\d+)-foot-(?P<inches2>\d+)`,
		`(?P<skip>\d+:\d+(?::\d+)*|\d{1,2}\.\s?\d{1,2}\.\s?\d{2,4}|\d+\s?[-–]\s?\d+)`,
	}
	if before := r.BeforeNumberPattern(l); before != "" {
		alts = append(alts,
			`(?P<pre>`+before+`)\s?(?P<pnum>`+num+`)(?:\s?(?P<pscale>`+scales+`))?(?P<ptail>`+tailPattern+`)`)
	}
	alts = append(alts,
		`(?P<sign>`+signPattern+`)?(?P<num>`+num+`)(?:`+
			`[ \x{a0}]?(?P<scale>`+scales+`)(?:(?P<susep>[ \x{a0}-])(?P<sunit>`+unitWords+`))?`+
			`|(?P<usep>[ \x{a0}-]?)(?P<unit>`+unitWords+`))?(?P<tail>`+tailPattern+`)`)

	re := regexp.MustCompile(strings.Join(alts, "|"))
	p := &pattern{
		re:        re,
		unitAfter: regexp.MustCompile(`^(?P<unit>` + unitWords + `)` + tailPattern),
		groups:    make(map[string]int),
	}
	for i, name := range re.SubexpNames() {
		if name != "" {
			p.groups[name] = i
		}
	}
	return p
}

type match struct {
	sentence string
	loc      []int
	groups   map[string]int
}

func (m match) has(name string) bool {
	i, ok := m.groups[name]
	return ok && m.loc[2*i] >= 0
}

func (m match) text(name string) string {
	i := m.groups[name]
	if m.loc[2*i] < 0 {
		return ""
	}
	return m.sentence[m.loc[2*i]:m.loc[2*i+1]]
}

func (m match) start(name string) int { return m.loc[2*m.groups[name]] }
func (m match) end(name string) int   { return m.loc[2*m.groups[name]+1] }

// Find runs the digit pass over sentence.
func (f *Finder) Find(sentence string, l *lang.Language) []Result {
	p := f.patterns[l.Code]
	if p == nil {
		return nil
	}

	var results []Result
	for _, loc := range p.re.FindAllStringSubmatchIndex(sentence, -1) {
		m := match{sentence: sentence, loc: loc, groups: p.groups}
		start := loc[0]
		// A hyphen glued to a word or a number is not a minus ("COVID-19").
		if m.has("sign") && !leftBoundary(sentence, start) {
			start = m.start("num")
		}
		if m.has("skip") || !leftBoundary(sentence, start) || afterColon(sentence, start) {
			continue
		}

		var (
			res Result
			ok  bool
		)
		switch {
		case m.has("feet"):
			res, ok = f.feetInches(m, l, "feet", "inches")
		case m.has("feet2"):
			res, ok = f.feetInches(m, l, "feet2", "inches2")
		case m.has("pre"):
			res, ok = f.beforeNumber(m, l)
		case m.has("num"):
			res, ok = f.afterNumber(m, l, start < m.start("num"))
		}
		if !ok {
			continue
		}
		res.Approximately = l.ApproximatelyBefore(sentence[:res.Start])
		results = append(results, res)
	}
	return results
}

func (f *Finder) feetInches(m match, l *lang.Language, feetGroup, inchesGroup string) (Result, bool) {
	feet, err1 := strconv.Atoi(m.text(feetGroup))
	inches, err2 := strconv.Atoi(m.text(inchesGroup))
	if err1 != nil || err2 != nil {
		return Result{}, false
	}
	n := float64(feet*12 + inches)
	start, end := m.loc[0], m.loc[1]
	return Result{
		Number:     n,
		Unit:       f.registry.CorrectUnit(l, n, nil, units.Query{Category: f.registry.Category(units.Inches)}),
		TextPart:   m.sentence[start:end],
		NumberText: m.sentence[start:end],
		Start:      start,
		End:        end,
	}, true
}

func (f *Finder) beforeNumber(m match, l *lang.Language) (Result, bool) {
	n, err := l.ParseNumber(m.text("pnum"))
	if err != nil {
		return Result{}, false
	}
	res := Result{
		Unit:  f.registry.UnitByWord(m.text("pre"), l),
		Start: m.start("pre"),
		End:   m.end("pnum"),
	}
	numberEnd := m.end("pnum")
	if m.has("pscale") {
		s, _ := l.Scale(m.text("pscale"))
		n *= s.Value
		res.Scaling = s.Value
		numberEnd = m.end("pscale")
		res.End = numberEnd
	}
	res.Number = n
	res.NumberText = m.sentence[m.start("pnum"):numberEnd]
	res.TextPart = m.sentence[res.Start:res.End]
	return res, true
}

func (f *Finder) afterNumber(m match, l *lang.Language, signed bool) (Result, bool) {
	n, err := l.ParseNumber(m.text("num"))
	if err != nil {
		return Result{}, false
	}

	res := Result{Start: m.start("num"), End: m.end("num")}
	if signed {
		n = -n
		res.Start = m.start("sign")
	}
	if m.has("scale") {
		s, _ := l.Scale(m.text("scale"))
		res.Scaling = s.Value
		res.End = m.end("scale")
	}

	// A unit after a scale word needs a separator, so "5 mm" is not read
	// as five million metres.
	for _, g := range [][2]string{{"sunit", "susep"}, {"unit", "usep"}} {
		if !m.has(g[0]) {
			continue
		}
		res.Unit = f.registry.UnitByWord(m.text(g[0]), l)
		res.End = m.end(g[0])
		res.Modifier = l == lang.English && m.text(g[1]) == "-"
	}

	// A one-letter scale with no unit after it is read as the unit of the
	// same spelling: "5 m" is five metres, "5 m USD" five million dollars.
	if res.Scaling != 0 && res.Unit == nil && utf8.RuneCountInString(m.text("scale")) == 1 {
		u := f.registry.UnitByWord(m.text("scale"), l)
		if u == nil {
			return Result{}, false
		}
		res.Unit = u
		res.Scaling = 0
		res.NumberText = m.sentence[res.Start:m.end("num")]
	} else {
		if res.Scaling != 0 {
			n *= res.Scaling
		}
		scaleEnd := m.end("num")
		if m.has("scale") {
			scaleEnd = m.end("scale")
		}
		res.NumberText = m.sentence[res.Start:scaleEnd]
	}
	res.Number = n

	res.TextPart = m.sentence[res.Start:res.End]
	return res, true
}

// leftBoundary rejects matches glued to a preceding letter or digit.
func leftBoundary(sentence string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(sentence[:start])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// afterColon rejects the tail of a time or score ("12:34:56", "3:1").
func afterColon(sentence string, start int) bool {
	r, _ := utf8.DecodeLastRuneInString(sentence[:start])
	return r == ':'
}

// Merge orders digit-pass and word-pass results by position.
func Merge(digits, words []Result) []Result {
	out := make([]Result, 0, len(digits)+len(words))
	out = append(out, digits...)
	out = append(out, words...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
