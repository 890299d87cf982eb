package rates

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const fixing = `31.01.2024 #22
země|měna|množství|kód|kurz
Austrálie|dolar|1|AUD|15,123
EMU|euro|1|EUR|24,750
Japonsko|jen|100|JPY|15,500
USA|dolar|1|USD|22,882
Velká Británie|libra|1|GBP|29,104
`

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9*math.Max(1, math.Abs(b)) }

func TestParseCNB(t *testing.T) {
	table, err := ParseCNB(strings.NewReader(fixing))
	if err != nil {
		t.Fatalf("ParseCNB failed: %v", err)
	}
	if len(table) != 5 {
		t.Fatalf("expected 5 rates, got %d: %v", len(table), table)
	}

	tests := []struct {
		code string
		want float64
	}{
		{"USD", 22.882},
		{"EUR", 24.75},
		{"JPY", 0.155},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if !near(table[tt.code], tt.want) {
				t.Errorf("rate %s = %v, want %v", tt.code, table[tt.code], tt.want)
			}
		})
	}
}

func TestParseCNB_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"headers only", "31.01.2024 #22\nzemě|měna|množství|kód|kurz\n"},
		{"missing field", "a\nb\nUSA|dolar|1|USD\n"},
		{"bad rate", "a\nb\nUSA|dolar|1|USD|abc\n"},
		{"zero amount", "a\nb\nUSA|dolar|0|USD|22,8\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCNB(strings.NewReader(tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTable_Rate(t *testing.T) {
	table := Table{"USD": 20, "EUR": 25}

	tests := []struct {
		name     string
		from, to string
		amount   float64
		want     float64
		wantErr  error
	}{
		{"identity", "USD", "USD", 7, 7, nil},
		{"identity unknown", "XYZ", "xyz", 7, 7, nil},
		{"to crowns", "USD", "CZK", 10, 200, nil},
		{"from crowns", "CZK", "EUR", 100, 4, nil},
		{"cross", "EUR", "USD", 4, 5, nil},
		{"lower case", "usd", "czk", 1, 20, nil},
		{"unknown", "GBP", "CZK", 1, 0, ErrUnknownCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Rate(tt.from, tt.to, tt.amount)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !near(got, tt.want) {
				t.Errorf("Rate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewStatic(t *testing.T) {
	s, err := NewStatic(map[string]float64{"usd": 25, "EUR": 25})
	if err != nil {
		t.Fatalf("NewStatic failed: %v", err)
	}
	got, err := s.Rate(context.Background(), "CZK", "USD", 100)
	if err != nil || got != 4 {
		t.Errorf("Rate = %v, %v", got, err)
	}
	if codes := s.Table().Codes(); len(codes) != 2 || codes[0] != "EUR" {
		t.Errorf("Codes = %v", codes)
	}

	if _, err := NewStatic(map[string]float64{"DOLLARS": 25}); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("expected ErrUnknownCurrency, got %v", err)
	}
	if _, err := NewStatic(map[string]float64{"USD": -1}); err == nil {
		t.Error("expected error for negative rate")
	}
}

type mockCache struct {
	getRatesFunc  func(ctx context.Context, day time.Time) (map[string]float64, bool, error)
	saveRatesFunc func(ctx context.Context, day time.Time, czk map[string]float64) error
}

func (m *mockCache) GetRates(ctx context.Context, day time.Time) (map[string]float64, bool, error) {
	if m.getRatesFunc != nil {
		return m.getRatesFunc(ctx, day)
	}
	return nil, false, nil
}

func (m *mockCache) SaveRates(ctx context.Context, day time.Time, czk map[string]float64) error {
	if m.saveRatesFunc != nil {
		return m.saveRatesFunc(ctx, day, czk)
	}
	return nil
}

func TestCNB_Rate(t *testing.T) {
	requests := 0
	var gotDate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		gotDate = r.URL.Query().Get("date")
		w.Write([]byte(fixing))
	}))
	defer server.Close()

	saved := 0
	cache := &mockCache{
		saveRatesFunc: func(_ context.Context, _ time.Time, czk map[string]float64) error {
			saved = len(czk)
			return nil
		},
	}

	c := NewCNB(server.URL, cache)
	c.client = server.Client()
	c.now = func() time.Time { return time.Date(2024, 1, 31, 12, 0, 0, 0, time.Local) }

	got, err := c.Rate(context.Background(), "USD", "CZK", 100)
	if err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	if !near(got, 2288.2) {
		t.Errorf("Rate = %v, want 2288.2", got)
	}
	if gotDate != "31.01.2024" {
		t.Errorf("date query = %q", gotDate)
	}
	if saved != 5 {
		t.Errorf("expected 5 rates saved, got %d", saved)
	}

	if _, err := c.Rate(context.Background(), "CZK", "EUR", 100); err != nil {
		t.Fatalf("Rate failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("expected one request for the day, got %d", requests)
	}
}

func TestCNB_UsesCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	}))
	defer server.Close()

	cache := &mockCache{
		getRatesFunc: func(context.Context, time.Time) (map[string]float64, bool, error) {
			return map[string]float64{"USD": 20}, true, nil
		},
	}
	c := NewCNB(server.URL, cache)
	c.client = server.Client()

	got, err := c.Rate(context.Background(), "USD", "CZK", 2)
	if err != nil || got != 40 {
		t.Errorf("Rate = %v, %v", got, err)
	}
}

func TestCNB_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("maintenance"))
	}))
	defer server.Close()

	c := NewCNB(server.URL, nil)
	c.client = server.Client()

	if _, err := c.Rate(context.Background(), "USD", "CZK", 1); err == nil {
		t.Error("expected error for non-OK status")
	}

	// Identity never needs the table.
	if got, err := c.Rate(context.Background(), "USD", "USD", 3); err != nil || got != 3 {
		t.Errorf("identity Rate = %v, %v", got, err)
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-01-31", "2024-01-31", false},
		{"31.1.2024", "2024-01-31", false},
		{"05.02.2024", "2024-02-05", false},
		{" 2024-02-05 ", "2024-02-05", false},
		{"12 February 2024", "2024-02-12", false},
		{"yesterday-ish", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDay(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}
