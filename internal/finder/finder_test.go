package finder

import (
	"strings"
	"testing"

	"github.com/valpere/numfix/internal/lang"
	"github.com/valpere/numfix/internal/lemma"
	"github.com/valpere/numfix/internal/units"
)

func newFinder(t *testing.T) *Finder {
	t.Helper()
	r, err := units.New()
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}
	return New(r)
}

type want struct {
	number   float64
	category units.CategoryID
	text     string
	scaling  float64
	approx   bool
	modifier bool
}

func check(t *testing.T, got []Result, wants []want) {
	t.Helper()
	if len(got) != len(wants) {
		t.Fatalf("got %d results %v, want %d", len(got), got, len(wants))
	}
	for i, w := range wants {
		g := got[i]
		if g.Number != w.number {
			t.Errorf("[%d] number = %v, want %v", i, g.Number, w.number)
		}
		switch {
		case w.category == "" && g.Unit != nil:
			t.Errorf("[%d] unexpected unit %v", i, g.Unit)
		case w.category != "" && (g.Unit == nil || g.Unit.Category.ID != w.category):
			t.Errorf("[%d] unit = %v, want %s", i, g.Unit, w.category)
		}
		if g.TextPart != w.text {
			t.Errorf("[%d] text = %q, want %q", i, g.TextPart, w.text)
		}
		if g.Scaling != w.scaling {
			t.Errorf("[%d] scaling = %v, want %v", i, g.Scaling, w.scaling)
		}
		if g.Approximately != w.approx {
			t.Errorf("[%d] approximately = %v, want %v", i, g.Approximately, w.approx)
		}
		if g.Modifier != w.modifier {
			t.Errorf("[%d] modifier = %v, want %v", i, g.Modifier, w.modifier)
		}
	}
}

func TestFind(t *testing.T) {
	f := newFinder(t)

	tests := []struct {
		name     string
		sentence string
		l        *lang.Language
		want     []want
	}{
		{
			name:     "bare number and scaled currency",
			sentence: "Koupil jsem si 25 domů za 100 tisíc korun českých.",
			l:        lang.Czech,
			want: []want{
				{number: 25, text: "25"},
				{number: 100000, category: units.Crowns, text: "100 tisíc korun českých", scaling: 1000},
			},
		},
		{
			name:     "approximately",
			sentence: "Je to asi 3 metry.",
			l:        lang.Czech,
			want:     []want{{number: 3, category: units.Meters, text: "3 metry", approx: true}},
		},
		{
			name:     "space grouping",
			sentence: "Stálo to 54 123 456,788 dolarů.",
			l:        lang.Czech,
			want:     []want{{number: 54123456.788, category: units.Dollars, text: "54 123 456,788 dolarů"}},
		},
		{
			name:     "dot grouping",
			sentence: "Stálo to 54.123.456,789 dolarů.",
			l:        lang.Czech,
			want:     []want{{number: 54123456.789, category: units.Dollars, text: "54.123.456,789 dolarů"}},
		},
		{
			name:     "currency code",
			sentence: "Stálo to 54123456 USD",
			l:        lang.Czech,
			want:     []want{{number: 54123456, category: units.Dollars, text: "54123456 USD"}},
		},
		{
			name:     "time and score are skipped",
			sentence: "Bylo 12:23 a skore bylo 5-0.",
			l:        lang.Czech,
		},
		{
			name:     "colon score is skipped",
			sentence: "Sparta vyhrála 3:1.",
			l:        lang.Czech,
		},
		{
			name:     "time with seconds is skipped",
			sentence: "Bylo 12:34:56.",
			l:        lang.Czech,
		},
		{
			name:     "negative temperature",
			sentence: "Venku bylo -5 °C.",
			l:        lang.Czech,
			want:     []want{{number: -5, category: units.Celsius, text: "-5 °C"}},
		},
		{
			name:     "minus sign",
			sentence: "It was \u22125.5 °F outside.",
			l:        lang.English,
			want:     []want{{number: -5.5, category: units.Fahrenheit, text: "\u22125.5 °F"}},
		},
		{
			name:     "hyphen after a word is not a minus",
			sentence: "The COVID-19 wave.",
			l:        lang.English,
			want:     []want{{number: 19, text: "19"}},
		},
		{
			name:     "date is skipped",
			sentence: "Narodil se 24. 12. 1990 v Praze.",
			l:        lang.Czech,
		},
		{
			name:     "modifier",
			sentence: "The 900-mile border is long.",
			l:        lang.English,
			want:     []want{{number: 900, category: units.Miles, text: "900-mile", modifier: true}},
		},
		{
			name:     "before-number unit with scale",
			sentence: "They paid $5 million for it.",
			l:        lang.English,
			want:     []want{{number: 5000000, category: units.Dollars, text: "$5 million", scaling: 1000000}},
		},
		{
			name:     "directly attached unit",
			sentence: "Bake it at 300°F.",
			l:        lang.English,
			want:     []want{{number: 300, category: units.Fahrenheit, text: "300°F"}},
		},
		{
			name:     "bare m is metres",
			sentence: "It is 5 m wide.",
			l:        lang.English,
			want:     []want{{number: 5, category: units.Meters, text: "5 m"}},
		},
		{
			name:     "m before a unit is million",
			sentence: "They raised 5 m USD.",
			l:        lang.English,
			want:     []want{{number: 5000000, category: units.Dollars, text: "5 m USD", scaling: 1000000}},
		},
		{
			name:     "unit after a one-letter scale",
			sentence: "Use a 5 mm screw.",
			l:        lang.English,
			want:     []want{{number: 5, category: units.Millimeters, text: "5 mm"}},
		},
		{
			name:     "feet and inches",
			sentence: "He is 6'2\" tall.",
			l:        lang.English,
			want:     []want{{number: 74, category: units.Inches, text: "6'2\""}},
		},
		{
			name:     "glued to a word",
			sentence: "The COVID19 wave.",
			l:        lang.English,
		},
		{
			name:     "english grouping",
			sentence: "About 1,500 kilometers away.",
			l:        lang.English,
			want:     []want{{number: 1500, category: units.Kilometers, text: "1,500 kilometers", approx: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, f.Find(tt.sentence, tt.l), tt.want)
		})
	}
}

func TestFind_Offsets(t *testing.T) {
	f := newFinder(t)
	sentence := "Ušel 25 km a pak 3 míle."
	for _, r := range f.Find(sentence, lang.Czech) {
		if sentence[r.Start:r.End] != r.TextPart {
			t.Errorf("offsets %d:%d give %q, want %q", r.Start, r.End, sentence[r.Start:r.End], r.TextPart)
		}
	}
}

// tokens builds lemmatizer output for the space-separated words of sentence.
// Each spec is "word/lemma/UPOS".
func tokens(t *testing.T, sentence string, specs ...string) []lemma.Token {
	t.Helper()
	var out []lemma.Token
	offset := 0
	for _, spec := range specs {
		parts := strings.Split(spec, "/")
		if len(parts) != 3 {
			t.Fatalf("bad token spec %q", spec)
		}
		i := strings.Index(sentence[offset:], parts[0])
		if i < 0 {
			t.Fatalf("token %q not in %q", parts[0], sentence)
		}
		start := offset + i
		out = append(out, lemma.Token{
			Word: parts[0], Lemma: parts[1], UPOS: parts[2],
			Start: start, End: start + len(parts[0]),
		})
		offset = start + len(parts[0])
	}
	return out
}

func TestFindWords(t *testing.T) {
	f := newFinder(t)

	tests := []struct {
		name     string
		sentence string
		l        *lang.Language
		tokens   []string
		want     []want
	}{
		{
			name:     "scaled with approximation",
			sentence: "Ušel asi dvacet tisíc metrů.",
			l:        lang.Czech,
			tokens:   []string{"Ušel/ujít/VERB", "asi/asi/ADV", "dvacet/dvacet/NUM", "tisíc/tisíc/NUM", "metrů/metr/NOUN", "././PUNCT"},
			want:     []want{{number: 20000, category: units.Meters, text: "dvacet tisíc metrů", scaling: 1000, approx: true}},
		},
		{
			name:     "compound",
			sentence: "Ušel dvacet pět kilometrů.",
			l:        lang.Czech,
			tokens:   []string{"Ušel/ujít/VERB", "dvacet/dvacet/NUM", "pět/pět/NUM", "kilometrů/kilometr/NOUN", "././PUNCT"},
			want:     []want{{number: 25, category: units.Kilometers, text: "dvacet pět kilometrů"}},
		},
		{
			name:     "english",
			sentence: "He carried twenty one kilograms.",
			l:        lang.English,
			tokens:   []string{"He/he/PRON", "carried/carry/VERB", "twenty/twenty/NUM", "one/one/NUM", "kilograms/kilogram/NOUN", "././PUNCT"},
			want:     []want{{number: 21, category: units.Kilograms, text: "twenty one kilograms"}},
		},
		{
			name:     "two single digits are two numbers",
			sentence: "Měl dva tři psy.",
			l:        lang.Czech,
			tokens:   []string{"Měl/mít/VERB", "dva/dva/NUM", "tři/tři/NUM", "psy/pes/NOUN", "././PUNCT"},
			want:     []want{{number: 2, text: "dva"}, {number: 3, text: "tři"}},
		},
		{
			name:     "trailing conjunction is trimmed",
			sentence: "Měl pět a pak nic.",
			l:        lang.Czech,
			tokens:   []string{"Měl/mít/VERB", "pět/pět/NUM", "a/a/CCONJ", "pak/pak/ADV", "nic/nic/PRON", "././PUNCT"},
			want:     []want{{number: 5, text: "pět"}},
		},
		{
			name:     "digits with scale are left to the digit pass",
			sentence: "Stálo to 5 tisíc korun.",
			l:        lang.Czech,
			tokens:   []string{"Stálo/stát/VERB", "to/ten/DET", "5/5/NUM", "tisíc/tisíc/NUM", "korun/koruna/NOUN", "././PUNCT"},
		},
		{
			name:     "before-number unit",
			sentence: "It cost $ five hundred.",
			l:        lang.English,
			tokens:   []string{"It/it/PRON", "cost/cost/VERB", "$/$/SYM", "five/five/NUM", "hundred/hundred/NUM", "././PUNCT"},
			want:     []want{{number: 500, category: units.Dollars, text: "$ five hundred"}},
		},
		{
			name:     "modifier",
			sentence: "A twenty-mile walk.",
			l:        lang.English,
			tokens:   []string{"A/a/DET", "twenty/twenty/NUM", "-/-/PUNCT", "mile/mile/NOUN", "walk/walk/NOUN", "././PUNCT"},
			want:     []want{{number: 20, category: units.Miles, text: "twenty-mile", modifier: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.FindWords(tt.sentence, tt.l, tokens(t, tt.sentence, tt.tokens...))
			check(t, got, tt.want)
		})
	}
}

func TestFindWords_NumberAsString(t *testing.T) {
	f := newFinder(t)
	sentence := "Ušel asi dvacet tisíc metrů."
	toks := tokens(t, sentence, "Ušel/ujít/VERB", "asi/asi/ADV", "dvacet/dvacet/NUM", "tisíc/tisíc/NUM", "metrů/metr/NOUN", "././PUNCT")
	got := f.FindWords(sentence, lang.Czech, toks)
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].NumberAsString != "dvacet tisíc" {
		t.Errorf("NumberAsString = %q, want %q", got[0].NumberAsString, "dvacet tisíc")
	}
	if !got[0].FromWords() {
		t.Error("expected a word-path result")
	}
	if got[0].Unscaled() != 20 {
		t.Errorf("Unscaled = %v, want 20", got[0].Unscaled())
	}
}

func TestMerge(t *testing.T) {
	got := Merge([]Result{{Start: 10}, {Start: 30}}, []Result{{Start: 20}})
	for i, start := range []int{10, 20, 30} {
		if got[i].Start != start {
			t.Errorf("[%d] start = %d, want %d", i, got[i].Start, start)
		}
	}
}
