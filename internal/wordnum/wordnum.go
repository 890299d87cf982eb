// Package wordnum converts lemmatized spelled-out numerals into numbers.
package wordnum

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/valpere/numfix/internal/lang"
)

var ErrUnconvertible = errors.New("unconvertible number words")

// ConversionError names the token that could not be read.
type ConversionError struct {
	Token    string
	Language string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s: %q is not a %s number word", ErrUnconvertible, e.Token, e.Language)
}

func (e *ConversionError) Unwrap() error { return ErrUnconvertible }

type table struct {
	words    map[string]float64
	hundreds map[string]bool
	// compound matches "pětadvacet" style words: units + "a" + tens.
	compound      *regexp.Regexp
	compoundUnits map[string]float64
}

var tables = map[string]*table{
	lang.Czech.Code: {
		words: map[string]float64{
			"nula": 0, "jedna": 1, "jeden": 1, "jedno": 1, "dva": 2, "dvě": 2,
			"tři": 3, "čtyři": 4, "pět": 5, "šest": 6, "sedm": 7, "osm": 8, "devět": 9,
			"deset": 10, "jedenáct": 11, "dvanáct": 12, "třináct": 13, "čtrnáct": 14,
			"patnáct": 15, "šestnáct": 16, "sedmnáct": 17, "osmnáct": 18, "devatenáct": 19,
			"dvacet": 20, "třicet": 30, "čtyřicet": 40, "padesát": 50,
			"šedesát": 60, "sedmdesát": 70, "osmdesát": 80, "devadesát": 90,
		},
		hundreds: map[string]bool{"sto": true, "stě": true, "sta": true, "set": true},
		compound: regexp.MustCompile(
			`^(jedn|dva|tři|čtyři|pět|šest|sedm|osm|devět)a(dvacet|třicet|čtyřicet|padesát|šedesát|sedmdesát|osmdesát|devadesát)$`),
		compoundUnits: map[string]float64{
			"jedn": 1, "dva": 2, "tři": 3, "čtyři": 4, "pět": 5,
			"šest": 6, "sedm": 7, "osm": 8, "devět": 9,
		},
	},
	lang.English.Code: {
		words: map[string]float64{
			"zero": 0, "a": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
			"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
			"twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15, "sixteen": 16,
			"seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20, "thirty": 30,
			"forty": 40, "fifty": 50, "sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
		},
		hundreds: map[string]bool{"hundred": true, "hundreds": true},
	},
}

// Value returns the value of a single number word, reporting false for scale
// words and unknown tokens.
func Value(word string, l *lang.Language) (float64, bool) {
	t, ok := tables[l.Code]
	if !ok {
		return 0, false
	}
	w := strings.ToLower(word)
	if v, ok := t.words[w]; ok {
		return v, true
	}
	if v, ok := t.compoundValue(w); ok {
		return v, true
	}
	return 0, false
}

func (t *table) compoundValue(w string) (float64, bool) {
	if t.compound == nil {
		return 0, false
	}
	m := t.compound.FindStringSubmatch(w)
	if m == nil {
		return 0, false
	}
	return t.compoundUnits[m[1]] + t.words[m[2]], true
}

// Convert reads a sequence of lemmas as one number. Conjunctions and
// punctuation are ignored; digit tokens are accepted as literal values.
// A lone scale word counts as one of it ("tisíc" is 1000).
func Convert(lemmas []string, l *lang.Language) (float64, error) {
	t, ok := tables[l.Code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", lang.ErrUnsupported, l.Code)
	}

	var total, current float64
	seen := false

	for _, raw := range lemmas {
		for _, w := range splitHyphens(strings.ToLower(strings.TrimSpace(raw)), l) {
			if w == "" || l.IsConjunction(w) || !hasAlnum(w) {
				continue
			}

			if v, ok := t.words[w]; ok {
				current += v
				seen = true
				continue
			}
			if v, ok := t.compoundValue(w); ok {
				current += v
				seen = true
				continue
			}
			if t.hundreds[w] {
				if current == 0 {
					current = 1
				}
				current *= 100
				seen = true
				continue
			}
			if s, ok := l.Scale(w); ok {
				switch {
				case current == 0 && total > 0 && total < s.Value:
					// "tisíc milionů": the scale multiplies everything so far.
					total *= s.Value
				default:
					if current == 0 {
						current = 1
					}
					total += current * s.Value
					current = 0
				}
				seen = true
				continue
			}
			if v, err := l.ParseNumber(w); err == nil {
				current += v
				seen = true
				continue
			}
			return 0, &ConversionError{Token: raw, Language: l.Code}
		}
	}

	if !seen {
		return 0, &ConversionError{Token: strings.Join(lemmas, " "), Language: l.Code}
	}
	return total + current, nil
}

// splitHyphens breaks English compounds such as "twenty-one".
func splitHyphens(w string, l *lang.Language) []string {
	if l != lang.English || !strings.Contains(w, "-") {
		return []string{w}
	}
	return strings.Split(w, "-")
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
