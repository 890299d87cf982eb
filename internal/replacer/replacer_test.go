package replacer

import (
	"testing"

	"github.com/valpere/numfix/internal/finder"
	"github.com/valpere/numfix/internal/lang"
	"github.com/valpere/numfix/internal/units"
)

func setup(t *testing.T) (*Replacer, func(string, *lang.Language) *units.Unit) {
	t.Helper()
	r, err := units.New()
	if err != nil {
		t.Fatalf("failed to load registry: %v", err)
	}
	unit := func(word string, l *lang.Language) *units.Unit {
		u := r.UnitByWord(word, l)
		if u == nil {
			t.Fatalf("no unit %q in %s", word, l)
		}
		return u
	}
	return New(r), unit
}

func TestReplaceUnit(t *testing.T) {
	rep, unit := setup(t)

	tests := []struct {
		name     string
		sentence string
		trg      finder.Result
		unit     *units.Unit
		want     string
	}{
		{
			name:     "after number with space",
			sentence: "I went over the handlebars and flew a good 300 yards on the ground.",
			trg:      finder.Result{Number: 300, Unit: unit("yards", lang.English), TextPart: "300 yards", NumberText: "300"},
			unit:     unit("metres", lang.English),
			want:     "I went over the handlebars and flew a good 300 metres on the ground.",
		},
		{
			name:     "after number without space",
			sentence: "Abc def 300°F ghch ijk.",
			trg:      finder.Result{Number: 300, Unit: unit("°F", lang.English), TextPart: "300°F", NumberText: "300"},
			unit:     unit("°C", lang.English),
			want:     "Abc def 300°C ghch ijk.",
		},
		{
			name:     "before number",
			sentence: "Abc def 300 dollars ghch ijk.",
			trg:      finder.Result{Number: 300, Unit: unit("dollars", lang.English), TextPart: "300 dollars", NumberText: "300"},
			unit:     unit("CZK", lang.English),
			want:     "Abc def CZK 300 ghch ijk.",
		},
		{
			name:     "before number without space",
			sentence: "Abc def 300 dollars ghch ijk.",
			trg:      finder.Result{Number: 300, Unit: unit("dollars", lang.English), TextPart: "300 dollars", NumberText: "300"},
			unit:     unit("$", lang.English),
			want:     "Abc def $300 ghch ijk.",
		},
		{
			name:     "modifier takes the singular",
			sentence: "The 900-kilometer border.",
			trg: finder.Result{
				Number: 900, Unit: unit("kilometer", lang.English), TextPart: "900-kilometer",
				NumberText: "900", Modifier: true, Start: 4, End: 17,
			},
			unit: unit("miles", lang.English),
			want: "The 900-mile border.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rep.ReplaceUnit(tt.sentence, tt.trg, tt.unit); got != tt.want {
				t.Errorf("ReplaceUnit() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplaceNumber(t *testing.T) {
	rep, unit := setup(t)

	t.Run("plain", func(t *testing.T) {
		src := finder.Result{Number: 500, Unit: unit("dolarů", lang.Czech), TextPart: "500 dolarů", NumberText: "500"}
		trg := finder.Result{Number: 300, Unit: unit("dollars", lang.English), TextPart: "300 dollars", NumberText: "300"}
		got := rep.ReplaceNumber("Abc def 300 dollars ghch ijk.", src, trg, lang.English, src.Number)
		if want := "Abc def 500 dollars ghch ijk."; got != want {
			t.Errorf("ReplaceNumber() = %q, want %q", got, want)
		}
	})

	t.Run("source scale is kept", func(t *testing.T) {
		src := finder.Result{Number: 123456789, Scaling: 1000, Unit: unit("dolarů", lang.Czech), TextPart: "123 456,789 tisíc dolarů"}
		trg := finder.Result{Number: 500.1, Unit: unit("dollars", lang.English), TextPart: "500.1 dollars", NumberText: "500.1"}
		got := rep.ReplaceNumber("Abc def 500.1 dollars ghch ijk.", src, trg, lang.English, src.Number)
		if want := "Abc def 123,456.789 thousand dollars ghch ijk."; got != want {
			t.Errorf("ReplaceNumber() = %q, want %q", got, want)
		}
	})

	t.Run("spelled out", func(t *testing.T) {
		src := finder.Result{Number: 25}
		trg := finder.Result{Number: 24, TextPart: "twenty four", NumberText: "twenty four", NumberAsString: "twenty four", Start: 8, End: 19}
		got := rep.ReplaceNumber("He made twenty four goals.", src, trg, lang.English, 25)
		if want := "He made 25 goals."; got != want {
			t.Errorf("ReplaceNumber() = %q, want %q", got, want)
		}
	})
}

func TestReplaceUnitNumber(t *testing.T) {
	rep, unit := setup(t)

	tests := []struct {
		name     string
		sentence string
		src      finder.Result
		trg      finder.Result
		n        float64
		unit     *units.Unit
		l        *lang.Language
		want     string
	}{
		{
			name:     "czech separators",
			sentence: "Abc def 500,1 korun ghch ijk.",
			src:      finder.Result{Number: 500.1, Unit: unit("crowns", lang.English)},
			trg:      finder.Result{Number: 500.1, Unit: unit("korun", lang.Czech), TextPart: "500,1 korun", NumberText: "500,1"},
			n:        1234.123,
			unit:     unit("dolarů", lang.Czech),
			l:        lang.Czech,
			want:     "Abc def 1 234,1 dolarů ghch ijk.",
		},
		{
			name:     "rounded to source precision",
			sentence: "Abc def 500.1 crowns ghch ijk.",
			src:      finder.Result{Number: 500.1, Unit: unit("korun", lang.Czech)},
			trg:      finder.Result{Number: 500.1, Unit: unit("crowns", lang.English), TextPart: "500.1 crowns", NumberText: "500.1"},
			n:        123456789,
			unit:     unit("dollars", lang.English),
			l:        lang.English,
			want:     "Abc def 123,460,000 dollars ghch ijk.",
		},
		{
			name:     "scale word reinserted",
			sentence: "Abc def 500.1 crowns ghch ijk.",
			src:      finder.Result{Number: 500100, Scaling: 1000, Unit: unit("korun", lang.Czech)},
			trg:      finder.Result{Number: 500.1, Unit: unit("crowns", lang.English), TextPart: "500.1 crowns", NumberText: "500.1"},
			n:        123456789,
			unit:     unit("dollars", lang.English),
			l:        lang.English,
			want:     "Abc def 123.46 million dollars ghch ijk.",
		},
		{
			name:     "spacing outside the occurrence is kept",
			sentence: "He walked 3 miles.  Then he slept.",
			src:      finder.Result{Number: 10, Unit: unit("km", lang.Czech)},
			trg:      finder.Result{Number: 3, Unit: unit("miles", lang.English), TextPart: "3 miles", NumberText: "3", Start: 10, End: 17},
			n:        10,
			unit:     unit("km", lang.English),
			l:        lang.English,
			want:     "He walked 10 km.  Then he slept.",
		},
		{
			name:     "negative number",
			sentence: "It was 5 °C outside.",
			src:      finder.Result{Number: -5, Unit: unit("°C", lang.Czech)},
			trg:      finder.Result{Number: 5, Unit: unit("°C", lang.English), TextPart: "5 °C", NumberText: "5", Start: 7, End: 11},
			n:        -5,
			unit:     unit("°C", lang.English),
			l:        lang.English,
			want:     "It was -5°C outside.",
		},
		{
			name:     "before-number unit",
			sentence: "It cost 20 dollars.",
			src:      finder.Result{Number: 500, Unit: unit("korun", lang.Czech)},
			trg:      finder.Result{Number: 20, Unit: unit("dollars", lang.English), TextPart: "20 dollars", NumberText: "20", Start: 8, End: 18},
			n:        500,
			unit:     unit("CZK", lang.English),
			l:        lang.English,
			want:     "It cost CZK 500.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rep.ReplaceUnitNumber(tt.sentence, tt.src, tt.trg, tt.l, tt.n, tt.unit)
			if got != tt.want {
				t.Errorf("ReplaceUnitNumber() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name     string
		sentence string
		trg      finder.Result
		fragment string
		want     string
	}{
		{
			name:     "offsets",
			sentence: "Go 3 mi  now.",
			trg:      finder.Result{TextPart: "3 mi", Start: 3, End: 7},
			fragment: "5 km",
			want:     "Go 5 km  now.",
		},
		{
			name:     "stale offsets fall back to search",
			sentence: "Go 3 mi now.",
			trg:      finder.Result{TextPart: "3 mi", Start: 0, End: 4},
			fragment: "5 km",
			want:     "Go 5 km now.",
		},
		{
			name:     "leading space at the seam",
			sentence: "It cost 20 dollars.",
			trg:      finder.Result{TextPart: "20", Start: 8, End: 10},
			fragment: " 500",
			want:     "It cost 500 dollars.",
		},
		{
			name:     "empty fragment",
			sentence: "It is 5 m  wide.",
			trg:      finder.Result{TextPart: "5 m", Start: 6, End: 9},
			want:     "It is wide.",
		},
		{
			name:     "missing occurrence",
			sentence: "Nothing here.",
			trg:      finder.Result{TextPart: "3 mi"},
			fragment: "5 km",
			want:     "Nothing here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splice(tt.sentence, tt.trg, tt.fragment); got != tt.want {
				t.Errorf("splice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		reference, n, want float64
	}{
		{500.1, 1234.123, 1234.1},
		{500.1, 123456789, 123460000},
		{500, 621.371, 620},
		{1000, 1609.344, 1600},
		{25, 40.2336, 40.2},
		{5, 0.0123456, 0.012},
		{0, 17.25, 17.25},
		{42, 0, 0},
	}
	for _, tt := range tests {
		if got := Round(tt.reference, tt.n); got != tt.want {
			t.Errorf("Round(%v, %v) = %v, want %v", tt.reference, tt.n, got, tt.want)
		}
	}
}

func TestSignificantDigits(t *testing.T) {
	tests := []struct {
		n    float64
		want int
	}{
		{500.1, 5},
		{500, 2},
		{1000, 2},
		{25, 3},
		{0.5, 3},
		{0, 0},
	}
	for _, tt := range tests {
		if got := SignificantDigits(tt.n); got != tt.want {
			t.Errorf("SignificantDigits(%v) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
