package units

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/currency"

	"github.com/valpere/numfix/internal/lang"
)

type catLang struct {
	category CategoryID
	language string
}

// Registry is the immutable unit catalogue with its category graph. All
// indexes are built in New; a Registry is safe for concurrent use.
type Registry struct {
	categories map[CategoryID]*Category
	order      []*Category
	derived    map[CategoryID][]*Category

	units     []*Unit
	byLang    map[string][]*Unit
	byCatLang map[catLang][]*Unit

	patterns       map[string]string
	beforePatterns map[string]string
}

// New builds the catalogue and validates its invariants.
func New() (*Registry, error) {
	r := &Registry{
		categories:     make(map[CategoryID]*Category, len(categoryTable)),
		derived:        make(map[CategoryID][]*Category),
		byLang:         make(map[string][]*Unit),
		byCatLang:      make(map[catLang][]*Unit),
		patterns:       make(map[string]string),
		beforePatterns: make(map[string]string),
	}

	for i := range categoryTable {
		c := categoryTable[i]
		if _, dup := r.categories[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category %s", c.ID)
		}
		r.categories[c.ID] = &c
		r.order = append(r.order, &c)
	}

	for _, c := range r.order {
		if err := r.validateCategory(c); err != nil {
			return nil, err
		}
		if !c.IsBase() {
			r.derived[c.Base] = append(r.derived[c.Base], c)
		}
	}

	for _, e := range catalogue {
		c, ok := r.categories[e.category]
		if !ok {
			return nil, fmt.Errorf("unit %q refers to unknown category %s", e.word, e.category)
		}
		u := &Unit{
			Word:         e.word,
			Category:     c,
			Language:     e.language,
			Validity:     e.validity,
			Abbreviation: e.abbr,
			Dialect:      e.dialect,
			BeforeNumber: e.before,
		}
		r.units = append(r.units, u)
		r.byLang[u.Language.Code] = append(r.byLang[u.Language.Code], u)
		key := catLang{category: c.ID, language: u.Language.Code}
		r.byCatLang[key] = append(r.byCatLang[key], u)
	}

	for _, l := range lang.Supported() {
		for _, c := range r.order {
			if len(r.byCatLang[catLang{category: c.ID, language: l.Code}]) == 0 {
				return nil, fmt.Errorf("category %s has no unit in %s", c.ID, l.Code)
			}
		}

		var all, before []string
		for _, u := range r.byLang[l.Code] {
			all = append(all, u.Word)
			if u.BeforeNumber {
				before = append(before, u.Word)
			}
		}
		r.patterns[l.Code] = lang.Alternation(all)
		r.beforePatterns[l.Code] = lang.Alternation(before)
	}

	return r, nil
}

func (r *Registry) validateCategory(c *Category) error {
	if c.IsBase() {
		if c.BaseCoefficient != 0 {
			return fmt.Errorf("base category %s has a coefficient", c.ID)
		}
	} else {
		if c.Conversion != nil {
			return fmt.Errorf("derived category %s carries a conversion", c.ID)
		}
		base, ok := r.categories[c.Base]
		if !ok || !base.IsBase() {
			return fmt.Errorf("category %s has invalid base %s", c.ID, c.Base)
		}
		if c.BaseCoefficient <= 0 {
			return fmt.Errorf("category %s has no coefficient", c.ID)
		}
	}
	for _, s := range c.Systems {
		if !s.currency() {
			continue
		}
		if _, err := currency.ParseISO(string(c.ID)); err != nil {
			return fmt.Errorf("currency category %s is not an ISO 4217 code: %w", c.ID, err)
		}
	}
	return nil
}

// Category returns the category with the given id, or nil.
func (r *Registry) Category(id CategoryID) *Category {
	return r.categories[id]
}

// Categories returns all categories in catalogue order.
func (r *Registry) Categories() []*Category {
	return append([]*Category(nil), r.order...)
}

// BaseOf returns the root category of c's family.
func (r *Registry) BaseOf(c *Category) *Category {
	if c.IsBase() {
		return c
	}
	return r.categories[c.Base]
}

// Derived returns the categories derived from base, in catalogue order.
func (r *Registry) Derived(base *Category) []*Category {
	return r.derived[base.ID]
}

// Units returns the forms of category c in language l.
func (r *Registry) Units(l *lang.Language, c *Category) []*Unit {
	return r.byCatLang[catLang{category: c.ID, language: l.Code}]
}

// UnitsFor returns every form in language l.
func (r *Registry) UnitsFor(l *lang.Language) []*Unit {
	return r.byLang[l.Code]
}

// UnitByWord is an exact lookup; the first catalogue entry wins.
func (r *Registry) UnitByWord(word string, l *lang.Language) *Unit {
	for _, u := range r.byLang[l.Code] {
		if u.Word == word {
			return u
		}
	}
	return nil
}

// UnitPattern is an alternation of every escaped unit word of l.
func (r *Registry) UnitPattern(l *lang.Language) string {
	return r.patterns[l.Code]
}

// BeforeNumberPattern is UnitPattern restricted to units written before the number.
func (r *Registry) BeforeNumberPattern(l *lang.Language) string {
	return r.beforePatterns[l.Code]
}

// ToBaseInCategory expresses n of unit u in u's base category.
func (r *Registry) ToBaseInCategory(u *Unit, n float64) float64 {
	c := u.Category
	for !c.IsBase() {
		n *= c.BaseCoefficient
		c = r.categories[c.Base]
	}
	return n
}

// Query narrows CorrectUnit.
type Query struct {
	// Category overrides the original unit's category.
	Category *Category
	// Modifier prefers hyphenated forms ("900-mile").
	Modifier bool
	// Abbreviation, when set, overrides matching the original unit's style.
	Abbreviation *bool
	// Dialect, when set, prefers forms of that dialect.
	Dialect Dialect
}

// Score components of CorrectUnit, summed per candidate.
const (
	ScoreModifier     = 1
	ScoreAbbreviation = 2
	ScoreUnrestricted = 1
	ScoreValidity     = 3
	ScoreDialect      = 1
)

// Score rates candidate as a form for n.
func (q Query) Score(candidate, original *Unit, n float64) int {
	score := 0
	if q.Modifier && strings.ContainsRune(candidate.Word, '-') {
		score += ScoreModifier
	}

	wantAbbr := false
	switch {
	case q.Abbreviation != nil:
		wantAbbr = *q.Abbreviation
	case original != nil:
		wantAbbr = original.Abbreviation
	}
	if candidate.Abbreviation == wantAbbr {
		score += ScoreAbbreviation
	}

	if candidate.Validity == nil {
		score += ScoreUnrestricted
	} else if candidate.Validity.Accepts(n) {
		score += ScoreValidity
	}

	if q.Dialect != DialectNone && candidate.Dialect == q.Dialect {
		score += ScoreDialect
	}
	return score
}

// CorrectUnit picks the best form of the category for n in language l.
// Either original or q.Category must be set. Ties keep catalogue order.
func (r *Registry) CorrectUnit(l *lang.Language, n float64, original *Unit, q Query) *Unit {
	c := q.Category
	if c == nil {
		c = original.Category
	}
	candidates := append([]*Unit(nil), r.Units(l, c)...)
	scores := make(map[*Unit]int, len(candidates))
	for _, u := range candidates {
		scores[u] = q.Score(u, original, n)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i]] > scores[candidates[j]]
	})
	return candidates[0]
}
