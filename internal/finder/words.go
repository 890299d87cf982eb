package finder

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/valpere/numfix/internal/lang"
	"github.com/valpere/numfix/internal/lemma"
	"github.com/valpere/numfix/internal/wordnum"
)

// maxUnitGap is how many runes may separate a spelled-out number from its unit.
const maxUnitGap = 2

// FindWords runs the word pass: runs of numeral tokens from the lemmatizer
// are read as numbers. Runs already covered by the digit pass are dropped.
func (f *Finder) FindWords(sentence string, l *lang.Language, tokens []lemma.Token) []Result {
	p := f.patterns[l.Code]
	if p == nil || !hasSpelledNumeral(tokens, l) {
		return nil
	}
	digits := f.Find(sentence, l)

	var results []Result
	for _, run := range f.runs(tokens, l) {
		if digitOnly(run, l) || overlaps(run, digits) {
			continue
		}
		res, ok := f.readRun(sentence, l, p, run)
		if !ok {
			continue
		}
		res.Approximately = l.ApproximatelyBefore(sentence[:res.Start])
		results = append(results, res)
	}
	return results
}

func hasSpelledNumeral(tokens []lemma.Token, l *lang.Language) bool {
	for _, t := range tokens {
		if (t.IsNumeral() || isScale(t, l)) && !t.IsDigits() {
			return true
		}
	}
	return false
}

func isScale(t lemma.Token, l *lang.Language) bool {
	if _, ok := l.Scale(t.Word); ok {
		return true
	}
	_, ok := l.Scale(t.Lemma)
	return ok
}

func scaleOf(t lemma.Token, l *lang.Language) (lang.Scale, bool) {
	if s, ok := l.Scale(t.Lemma); ok {
		return s, true
	}
	return l.Scale(t.Word)
}

func isGlue(t lemma.Token, l *lang.Language) bool {
	return t.IsPunct() || l.IsConjunction(t.Word)
}

// runs groups consecutive numeral tokens; conjunctions and punctuation may sit
// inside a run but never end one.
func (f *Finder) runs(tokens []lemma.Token, l *lang.Language) [][]lemma.Token {
	var (
		out [][]lemma.Token
		cur []lemma.Token
	)
	flush := func() {
		for len(cur) > 0 && isGlue(cur[len(cur)-1], l) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 {
			out = append(out, splitDigits(cur, l)...)
		}
		cur = nil
	}

	for _, t := range tokens {
		switch {
		case t.IsNumeral() || isScale(t, l):
			cur = append(cur, t)
		case len(cur) > 0 && isGlue(t, l):
			cur = append(cur, t)
		default:
			flush()
		}
	}
	flush()
	return out
}

// splitDigits separates "dva tři" or "two and three", which list two numbers
// rather than compose one.
func splitDigits(run []lemma.Token, l *lang.Language) [][]lemma.Token {
	var first, second lemma.Token
	switch {
	case len(run) == 2:
		first, second = run[0], run[1]
	case len(run) == 3 && l.IsConjunction(run[1].Word):
		first, second = run[0], run[2]
	default:
		return [][]lemma.Token{run}
	}

	a, ok1 := wordnum.Value(lemmaOf(first), l)
	b, ok2 := wordnum.Value(lemmaOf(second), l)
	if ok1 && ok2 && a <= 9 && b <= 9 && a < b {
		return [][]lemma.Token{{first}, {second}}
	}
	return [][]lemma.Token{run}
}

func lemmaOf(t lemma.Token) string {
	if t.Lemma != "" && t.Lemma != "_" {
		return t.Lemma
	}
	return t.Word
}

// digitOnly reports runs the digit pass already reads.
func digitOnly(run []lemma.Token, l *lang.Language) bool {
	for _, t := range run {
		if isGlue(t, l) || t.IsDigits() || isScale(t, l) {
			continue
		}
		return false
	}
	for _, t := range run {
		if t.IsDigits() {
			return true
		}
	}
	return false
}

func overlaps(run []lemma.Token, digits []Result) bool {
	start, end := run[0].Start, run[len(run)-1].End
	for _, d := range digits {
		if start < d.End && d.Start < end {
			return true
		}
	}
	return false
}

func (f *Finder) readRun(sentence string, l *lang.Language, p *pattern, run []lemma.Token) (Result, bool) {
	number, scaling, ok := value(run, l)
	if !ok {
		return Result{}, false
	}

	start, end := run[0].Start, run[len(run)-1].End
	numeral := sentence[start:end]
	res := Result{
		Number:         number,
		Scaling:        scaling,
		NumberAsString: numeral,
		NumberText:     numeral,
		Start:          start,
		End:            end,
	}

	if word, at := f.unitBefore(sentence[:start], l); word != "" {
		res.Unit = f.registry.UnitByWord(word, l)
		res.Start = at
	} else if word, sep, at := unitAfter(sentence[end:], p); word != "" {
		res.Unit = f.registry.UnitByWord(word, l)
		res.End = end + at + len(word)
		res.Modifier = l == lang.English && sep == "-"
	}
	res.TextPart = sentence[res.Start:res.End]
	return res, true
}

// value converts a run. A trailing scale word larger than any other scale in
// the run is kept apart as the scaling.
func value(run []lemma.Token, l *lang.Language) (number, scaling float64, ok bool) {
	lemmas := make([]string, 0, len(run))
	for _, t := range run {
		lemmas = append(lemmas, lemmaOf(t))
	}

	last, isScaled := scaleOf(run[len(run)-1], l)
	if isScaled {
		for _, t := range run[:len(run)-1] {
			if s, ok := scaleOf(t, l); ok && s.Value >= last.Value {
				isScaled = false
				break
			}
		}
	}

	if !isScaled {
		n, err := wordnum.Convert(lemmas, l)
		if err != nil {
			return 0, 0, false
		}
		return n, 0, true
	}

	base := 1.0
	if rest := lemmas[:len(lemmas)-1]; hasWords(rest, l) {
		n, err := wordnum.Convert(rest, l)
		if err != nil {
			return 0, 0, false
		}
		base = n
	}
	return base * last.Value, last.Value, true
}

func hasWords(lemmas []string, l *lang.Language) bool {
	for _, w := range lemmas {
		if !l.IsConjunction(w) && hasAlnum(w) {
			return true
		}
	}
	return false
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// unitBefore looks for a before-number unit ending within maxUnitGap runes of
// the numeral. It returns the unit word and its byte offset.
func (f *Finder) unitBefore(prefix string, l *lang.Language) (string, int) {
	trimmed := trimGap(prefix, true)
	var best string
	for _, u := range f.registry.UnitsFor(l) {
		if !u.BeforeNumber || len(u.Word) <= len(best) || !strings.HasSuffix(trimmed, u.Word) {
			continue
		}
		if leftBoundary(trimmed, len(trimmed)-len(u.Word)) {
			best = u.Word
		}
	}
	if best == "" {
		return "", 0
	}
	return best, len(trimmed) - len(best)
}

// unitAfter matches a unit within maxUnitGap runes after the numeral. The
// offset returned is where the unit starts relative to rest.
func unitAfter(rest string, p *pattern) (word, sep string, at int) {
	trimmed := trimGap(rest, false)
	at = len(rest) - len(trimmed)
	m := p.unitAfter.FindStringSubmatchIndex(trimmed)
	if m == nil {
		return "", "", 0
	}
	return trimmed[m[2]:m[3]], rest[:at], at
}

func trimGap(s string, fromRight bool) string {
	for n := 0; n < maxUnitGap && s != ""; n++ {
		var (
			r    rune
			size int
		)
		if fromRight {
			r, size = utf8.DecodeLastRuneInString(s)
		} else {
			r, size = utf8.DecodeRuneInString(s)
		}
		if !unicode.IsSpace(r) && r != '-' {
			break
		}
		if fromRight {
			s = s[:len(s)-size]
		} else {
			s = s[size:]
		}
	}
	return s
}
