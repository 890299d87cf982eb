package units

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/valpere/numfix/internal/lang"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}
	return r
}

func unit(t *testing.T, r *Registry, word string, l *lang.Language) *Unit {
	t.Helper()
	u := r.UnitByWord(word, l)
	if u == nil {
		t.Fatalf("no unit %q in %s", word, l)
	}
	return u
}

func TestRegistry_EveryCategoryHasUnits(t *testing.T) {
	r := newRegistry(t)
	for _, l := range lang.Supported() {
		for _, c := range r.Categories() {
			if len(r.Units(l, c)) == 0 {
				t.Errorf("category %s has no units in %s", c.ID, l)
			}
		}
	}
}

func TestRegistry_UnitByWord(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		word string
		lang *lang.Language
		want CategoryID
	}{
		{"kilometrů", lang.Czech, Kilometers},
		{"km", lang.English, Kilometers},
		{"korun českých", lang.Czech, Crowns},
		{"$", lang.English, Dollars},
		{"pounds", lang.English, PoundsSterling},
		{"let", lang.Czech, Years},
		{"mil", lang.Czech, Miles},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			u := r.UnitByWord(tt.word, tt.lang)
			if u == nil {
				t.Fatal("expected a unit")
			}
			if u.Category.ID != tt.want {
				t.Errorf("got %s, want %s", u.Category.ID, tt.want)
			}
		})
	}

	if u := r.UnitByWord("kilometrů", lang.English); u != nil {
		t.Errorf("expected no English unit, got %v", u)
	}
}

func TestRegistry_CorrectUnit(t *testing.T) {
	r := newRegistry(t)
	yes, no := true, false

	tests := []struct {
		name     string
		lang     *lang.Language
		n        float64
		original *Unit
		query    Query
		want     string
	}{
		{"czech plural genitive", lang.Czech, 125, unit(t, r, "meter", lang.English), Query{}, "metrů"},
		{"abbreviation kept", lang.English, 125, unit(t, r, "km", lang.Czech), Query{}, "km"},
		{"abbreviation forced", lang.English, 125, unit(t, r, "kilometrů", lang.Czech), Query{Abbreviation: &yes}, "km"},
		{"abbreviation refused", lang.English, 125, unit(t, r, "km", lang.Czech), Query{Abbreviation: &no}, "kilometers"},
		{"czech ones", lang.Czech, 1, unit(t, r, "kilometers", lang.English), Query{}, "kilometr"},
		{"czech paucal", lang.Czech, 3, unit(t, r, "kilometers", lang.English), Query{}, "kilometry"},
		{"czech negative paucal", lang.Czech, -2, unit(t, r, "kilometers", lang.English), Query{}, "kilometry"},
		{"czech five and more", lang.Czech, 7, unit(t, r, "kilometers", lang.English), Query{}, "kilometrů"},
		{"czech decimal", lang.Czech, 2.5, unit(t, r, "kilometers", lang.English), Query{}, "kilometru"},
		{"english singular", lang.English, 1, unit(t, r, "míle", lang.Czech), Query{}, "mile"},
		{"preferred dialect", lang.English, 5, unit(t, r, "kilometers", lang.English), Query{Dialect: BrE}, "kilometres"},
		{"strict category", lang.English, 5, unit(t, r, "kilometrů", lang.Czech), Query{Category: r.Category(Miles)}, "miles"},
		{"category without original", lang.English, 2, nil, Query{Category: r.Category(Inches)}, "inches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.CorrectUnit(tt.lang, tt.n, tt.original, tt.query)
			if got.Word != tt.want {
				t.Errorf("got %q, want %q", got.Word, tt.want)
			}
		})
	}
}

func TestRegistry_Patterns(t *testing.T) {
	r := newRegistry(t)

	all := r.UnitPattern(lang.English)
	if !strings.Contains(all, `\$`) {
		t.Errorf("expected escaped dollar in %q", all)
	}
	if strings.Index(all, "kilometers") > strings.Index(all, "|km|") {
		t.Error("expected longer words first")
	}

	before := r.BeforeNumberPattern(lang.English)
	if !strings.Contains(before, "CZK") || strings.Contains(before, "dollars") {
		t.Errorf("unexpected before-number pattern %q", before)
	}
}

func TestRegistry_ToBaseInCategory(t *testing.T) {
	r := newRegistry(t)
	if got := r.ToBaseInCategory(unit(t, r, "kilogramů", lang.Czech), 12); got != 12000 {
		t.Errorf("got %v, want 12000", got)
	}
	if got := r.ToBaseInCategory(unit(t, r, "m", lang.Czech), 12); got != 12 {
		t.Errorf("got %v, want 12", got)
	}
}

func TestConverter_ToBaseInAnotherSystem(t *testing.T) {
	r := newRegistry(t)
	c := NewConverter(r, nil)
	ctx := context.Background()

	got, err := c.ToBaseInAnotherSystem(ctx, unit(t, r, "centimetrů", lang.Czech), 1201, r.Category(Feet))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Round(got) != 39 {
		t.Errorf("got %v, want about 39", got)
	}

	got, err = c.ToBaseInAnotherSystem(ctx, unit(t, r, "km", lang.Czech), 2, r.Category(Kilometers))
	if err != nil || got != 2000 {
		t.Errorf("same family: got %v, %v", got, err)
	}

	_, err = c.ToBaseInAnotherSystem(ctx, unit(t, r, "km", lang.Czech), 2, r.Category(Grams))
	if !errors.Is(err, ErrIncompatible) {
		t.Errorf("expected ErrIncompatible, got %v", err)
	}

	_, err = c.ToBaseInAnotherSystem(ctx, unit(t, r, "let", lang.Czech), 2, r.Category(Feet))
	if !errors.Is(err, ErrNoConversion) {
		t.Errorf("expected ErrNoConversion, got %v", err)
	}
}

func TestConverter_ConvertNumber(t *testing.T) {
	r := newRegistry(t)
	c := NewConverter(r, nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		lang       *lang.Language
		systems    Systems
		n          float64
		original   *Unit
		translated *Unit
		want       float64
		wantWord   string
	}{
		{"feet to metres", lang.Czech, Systems{SystemSI}, 123, unit(t, r, "feet", lang.English), unit(t, r, "stop", lang.Czech), 37, "metru"},
		{"metres to miles", lang.English, Systems{SystemImperial}, 456786, unit(t, r, "metrů", lang.Czech), unit(t, r, "m", lang.Czech), 284, "miles"},
		{"celsius to fahrenheit", lang.English, Systems{SystemImperial}, 20, unit(t, r, "°C", lang.Czech), unit(t, r, "°C", lang.English), 68, "°F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, u, err := c.ConvertNumber(ctx, tt.lang, tt.systems, tt.n, tt.original, tt.translated, Query{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Round(got) != tt.want {
				t.Errorf("got %v, want about %v", got, tt.want)
			}
			if u.Word != tt.wantWord {
				t.Errorf("got unit %q, want %q", u.Word, tt.wantWord)
			}
		})
	}

	_, _, err := c.ConvertNumber(ctx, lang.English, Systems{SystemSI}, 25, unit(t, r, "let", lang.Czech), nil, Query{})
	if !errors.Is(err, ErrNoConversion) {
		t.Errorf("expected ErrNoConversion, got %v", err)
	}
}

func TestConverter_BestUnitForConverted(t *testing.T) {
	r := newRegistry(t)
	c := NewConverter(r, nil)

	got, u := c.BestUnitForConverted(lang.English, 5000, r.Category(Meters), unit(t, r, "metrů", lang.Czech), unit(t, r, "inches", lang.English), Query{})
	if got != 5 || u.Word != "kilometers" {
		t.Errorf("got %v %q, want 5 kilometers", got, u.Word)
	}

	got, u = c.BestUnitForConverted(lang.English, 0.5, r.Category(Meters), unit(t, r, "metrů", lang.Czech), nil, Query{})
	if got != 0.5 || u.Category.ID != Meters {
		t.Errorf("got %v %s, want 0.5 m", got, u.Category.ID)
	}

	got, u = c.BestUnitForConverted(lang.English, 5000, r.Category(Meters), unit(t, r, "metrů", lang.Czech), unit(t, r, "meters", lang.English), Query{})
	if got != 5000 || u.Word != "meters" {
		t.Errorf("got %v %q, want 5000 meters", got, u.Word)
	}
}

func TestUnit_FollowsNumberDirectly(t *testing.T) {
	r := newRegistry(t)
	tests := []struct {
		word string
		want bool
	}{
		{"°C", true},
		{"°F", true},
		{"km", false},
		{"miles", false},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := unit(t, r, tt.word, lang.English).FollowsNumberDirectly(); got != tt.want {
				t.Errorf("FollowsNumberDirectly() = %v, want %v", got, tt.want)
			}
		})
	}
	if (&Unit{}).FollowsNumberDirectly() {
		t.Error("empty word should not attach")
	}
}

func TestQuery_ScoreModifier(t *testing.T) {
	r := newRegistry(t)
	q := Query{Modifier: true}
	hyphenated := &Unit{Word: "square-foot", Category: r.Category(SquareFeet), Language: lang.English}
	plain := &Unit{Word: "square foot", Category: r.Category(SquareFeet), Language: lang.English}
	if q.Score(hyphenated, nil, 1)-q.Score(plain, nil, 1) != ScoreModifier {
		t.Error("hyphenated form should gain the modifier score")
	}
}
