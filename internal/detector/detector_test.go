package detector

import (
	"testing"

	lingua "github.com/pemistahl/lingua-go"
)

func TestDetector_DetectISO(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantOK   bool
	}{
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
		{
			name:   "whitespace",
			text:   "   ",
			wantOK: false,
		},
		{
			name:     "english text",
			text:     "The bridge is about nine hundred metres long and was opened last year.",
			wantCode: "EN",
			wantOK:   true,
		},
		{
			name:     "czech text",
			text:     "Most je dlouhý přibližně devět set metrů a byl otevřen loni v létě.",
			wantCode: "CS",
			wantOK:   true,
		},
		{
			name:     "german text",
			text:     "Die Brücke ist ungefähr neunhundert Meter lang und wurde letztes Jahr eröffnet.",
			wantCode: "DE",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.DetectISO(tt.text)
			if ok != tt.wantOK {
				t.Errorf("DetectISO(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && code != tt.wantCode {
				t.Errorf("DetectISO(%q) = %q, want %q", tt.text, code, tt.wantCode)
			}
		})
	}
}

func TestDetector_Restricted(t *testing.T) {
	d := New(lingua.Czech, lingua.English)

	lang, ok := d.Detect("Vzdálenost mezi městy je dvacet pět kilometrů.")
	if !ok || lang != lingua.Czech {
		t.Errorf("Detect = %v, %v; want Czech", lang, ok)
	}
}

func TestDetector_ShortText(t *testing.T) {
	d := New()

	// Short text may or may not be detected; it must not panic.
	_, _ = d.DetectISO("5 km")
}
