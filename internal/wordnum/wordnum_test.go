package wordnum

import (
	"errors"
	"strings"
	"testing"

	"github.com/valpere/numfix/internal/lang"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		lang *lang.Language
		in   string
		want float64
	}{
		{"units", lang.Czech, "devět", 9},
		{"tens and units", lang.Czech, "dvacet osm", 28},
		{"tens then units reversed order", lang.Czech, "dvacet pět", 25},
		{"compound", lang.Czech, "třiapadesát", 53},
		{"compound with jedna", lang.Czech, "jednašedesát", 61},
		{"compound twenty five", lang.Czech, "pětadvacet", 25},
		{"hundreds", lang.Czech, "sto šedesát sedm", 167},
		{"thousand and ten", lang.Czech, "tisíc deset", 1010},
		{"thousand five hundred", lang.Czech, "tisíc pět set devadesát jedna", 1591},
		{"compound thousands", lang.Czech, "pětaosmdesát tisíc", 85000},
		{"hundreds of thousands", lang.Czech, "sto padesát tisíc", 150000},
		{"millions", lang.Czech, "sto patnáct milion", 115000000},
		{"mixed scales", lang.Czech, "pět milion devět set osmdesát sedm tisíc pět set čtyřicet dva", 5987542},
		{"hundred ten", lang.Czech, "sto deset", 110},
		{"thousand hundred fifty", lang.Czech, "tisíc sto padesát", 1150},
		{"paucal hundreds", lang.Czech, "dva tisíce tři sta", 2300},
		{"lone scale", lang.Czech, "tisíc", 1000},
		{"thousand millions", lang.Czech, "tisíc milion", 1e9},
		{"conjunction ignored", lang.Czech, "sto a deset", 110},
		{"english", lang.English, "twenty five", 25},
		{"english hyphen", lang.English, "twenty-one", 21},
		{"english lone thousand", lang.English, "thousand", 1000},
		{"english and", lang.English, "three hundred and twelve", 312},
		{"english millions", lang.English, "two million five hundred thousand", 2500000},
		{"english article", lang.English, "a hundred", 100},
		{"digits with scale word", lang.English, "5 million", 5000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(strings.Fields(tt.in), tt.lang)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Convert(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name string
		lang *lang.Language
		in   []string
	}{
		{"unknown word", lang.Czech, []string{"dvacet", "koček"}},
		{"english unknown", lang.English, []string{"twenty", "cats"}},
		{"only conjunction", lang.English, []string{"and"}},
		{"empty", lang.Czech, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(tt.in, tt.lang)
			if !errors.Is(err, ErrUnconvertible) {
				t.Fatalf("expected ErrUnconvertible, got %v", err)
			}
			var convErr *ConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("expected *ConversionError, got %T", err)
			}
		})
	}
}

func TestValue(t *testing.T) {
	if v, ok := Value("pět", lang.Czech); !ok || v != 5 {
		t.Errorf("got %v %v, want 5", v, ok)
	}
	if v, ok := Value("Six", lang.English); !ok || v != 6 {
		t.Errorf("got %v %v, want 6", v, ok)
	}
	if _, ok := Value("tisíc", lang.Czech); ok {
		t.Error("scale words have no single value")
	}
}
