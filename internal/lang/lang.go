// Package lang holds the per-language tables used to read and write numbers:
// approximation adverbs, separators, scale words and number-word detection.
package lang

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	ErrUnsupported = errors.New("unsupported language")
	ErrParse       = errors.New("malformed number")
)

// Scale is a lexical multiplier such as "thousand" or "tisíc".
type Scale struct {
	Word  string
	Value float64
	// Validity limits the numbers the form may follow; nil means any number.
	Validity *Validity
	// Reinsert is false for forms that are recognised but never written back
	// (English plurals, "m", "bn").
	Reinsert bool
}

type Language struct {
	Code string
	Tag  language.Tag

	Approximately []string
	Conjunctions  []string

	DecimalSeparator   string
	ThousandsSeparator string
	// GroupSeparator is used when rendering. Czech text reads both "." and
	// " " as grouping and is written with a plain space where CLDR has a
	// no-break space.
	GroupSeparator string

	Scales []Scale

	numberWords *regexp.Regexp
}

func (l *Language) String() string { return l.Code }

// Lookup resolves a BCP 47 code ("cs", "en-GB", "ces") to a supported language.
func Lookup(code string) (*Language, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnsupported, code, err)
	}
	base, _ := tag.Base()
	switch base.String() {
	case Czech.Code:
		return Czech, nil
	case English.Code:
		return English, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, code)
}

// Supported returns the languages in a fixed order.
func Supported() []*Language { return []*Language{Czech, English} }

// HasNumberWords reports whether text may contain a spelled-out number.
// False positives only cost a lemmatizer call.
func (l *Language) HasNumberWords(text string) bool {
	return l.numberWords.MatchString(strings.ToLower(text))
}

// Scale returns the scale entry for word, case-insensitively.
func (l *Language) Scale(word string) (Scale, bool) {
	w := strings.ToLower(word)
	for _, s := range l.Scales {
		if s.Word == w {
			return s, true
		}
	}
	return Scale{}, false
}

// ScaleWord picks a written form of the scale with the given value that is
// grammatical after n.
func (l *Language) ScaleWord(value, n float64) (string, bool) {
	for _, s := range l.Scales {
		if s.Value != value || !s.Reinsert {
			continue
		}
		if s.Validity == nil || s.Validity.Accepts(n) {
			return s.Word, true
		}
	}
	return "", false
}

// LargestScaleBelow returns the value of the largest scale smaller than n,
// or 0 when none is.
func (l *Language) LargestScaleBelow(n float64) float64 {
	var best float64
	for _, s := range l.Scales {
		if s.Value < n && s.Value > best {
			best = s.Value
		}
	}
	return best
}

// ScalePattern is an alternation of the scale words, longest first.
func (l *Language) ScalePattern() string {
	words := make([]string, 0, len(l.Scales))
	for _, s := range l.Scales {
		words = append(words, s.Word)
	}
	return Alternation(words)
}

// IsConjunction reports whether word joins numerals ("a", "and").
func (l *Language) IsConjunction(word string) bool {
	w := strings.ToLower(word)
	for _, c := range l.Conjunctions {
		if c == w {
			return true
		}
	}
	return false
}

// ApproximatelyBefore reports whether prefix ends with an approximation adverb.
func (l *Language) ApproximatelyBefore(prefix string) bool {
	p := strings.ToLower(strings.TrimRightFunc(prefix, unicode.IsSpace))
	for _, a := range l.Approximately {
		if !strings.HasSuffix(p, a) {
			continue
		}
		rest := p[:len(p)-len(a)]
		if rest == "" {
			return true
		}
		if r := lastRune(rest); !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// ParseNumber delocalizes a digit numeral ("54 123,5", "54.123,5",
// "54,123.5", "−5").
func (l *Language) ParseNumber(s string) (float64, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return -1
		case r == '\u2212':
			return '-'
		}
		return r
	}, s)
	if l.ThousandsSeparator != "" {
		clean = strings.ReplaceAll(clean, l.ThousandsSeparator, "")
	}
	if l.DecimalSeparator != "." {
		clean = strings.ReplaceAll(clean, l.DecimalSeparator, ".")
	}
	if strings.Count(clean, ".") > 1 {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, s)
	}
	return v, nil
}

// FormatNumber renders v in the language's CLDR decimal format with as many
// fraction digits as the shortest representation of v needs, so a value
// rounded by the caller keeps exactly its digits.
func (l *Language) FormatNumber(v float64) string {
	p := message.NewPrinter(l.Tag)
	s := p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(fractionDigits(v))))
	if l.GroupSeparator != "" {
		// CLDR groups Czech with a no-break space.
		s = strings.NewReplacer("\u00a0", l.GroupSeparator, "\u202f", l.GroupSeparator).Replace(s)
	}
	return s
}

func fractionDigits(v float64) int {
	_, fraction, ok := strings.Cut(strconv.FormatFloat(v, 'f', -1, 64), ".")
	if !ok {
		return 0
	}
	return len(fraction)
}

// Alternation joins quoted words into a regexp alternation, longest first so
// that leftmost-first matching prefers "km²" over "km".
func Alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len([]rune(sorted[i])) > len([]rune(sorted[j]))
	})
	quoted := make([]string, 0, len(sorted))
	seen := make(map[string]bool, len(sorted))
	for _, w := range sorted {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	return strings.Join(quoted, "|")
}

func lastRune(s string) rune {
	r := []rune(s)
	return r[len(r)-1]
}
