package rates

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/currency"
)

// DefaultCNBURL serves the Czech National Bank daily fixing as text.
const DefaultCNBURL = "https://www.cnb.cz/cs/financni-trhy/devizovy-trh/kurzy-devizoveho-trhu/kurzy-devizoveho-trhu/denni_kurz.txt"

// Cache persists daily tables between runs.
type Cache interface {
	GetRates(ctx context.Context, day time.Time) (map[string]float64, bool, error)
	SaveRates(ctx context.Context, day time.Time, czk map[string]float64) error
}

// CNB fetches the daily fixing, memoizing one table per day in memory and,
// when a cache is set, in the store.
type CNB struct {
	baseURL string
	client  *http.Client
	cache   Cache
	now     func() time.Time

	mu     sync.Mutex
	tables map[string]Table
}

func NewCNB(baseURL string, cache Cache) *CNB {
	if baseURL == "" {
		baseURL = DefaultCNBURL
	}
	return &CNB{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
		now:     time.Now,
		tables:  make(map[string]Table),
	}
}

func (c *CNB) Rate(ctx context.Context, from, to string, amount float64) (float64, error) {
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	t, err := c.Table(ctx, c.now())
	if err != nil {
		return 0, err
	}
	return t.Rate(from, to, amount)
}

// Table returns the fixing valid on day.
func (c *CNB) Table(ctx context.Context, day time.Time) (Table, error) {
	key := day.Format("2006-01-02")

	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.tables[key]; ok {
		return t, nil
	}

	if c.cache != nil {
		cached, found, err := c.cache.GetRates(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("failed to read rate cache: %w", err)
		}
		if found {
			c.tables[key] = cached
			return cached, nil
		}
	}

	t, err := c.fetch(ctx, day)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.SaveRates(ctx, day, t); err != nil {
			return nil, fmt.Errorf("failed to write rate cache: %w", err)
		}
	}
	c.tables[key] = t
	return t, nil
}

// ParseDay reads a fixing day as written in either language: "2024-01-31",
// "31.1.2024" or "31 January 2024". Dotted dates are day first.
func ParseDay(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(s), time.Local, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func (c *CNB) fetch(ctx context.Context, day time.Time) (Table, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid exchange rate url: %w", err)
	}
	q := u.Query()
	q.Set("date", day.Format("02.01.2006"))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("exchange rate API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return ParseCNB(resp.Body)
}

// ParseCNB reads the daily fixing text: a date line, a header line, then
// rows "country|currency|amount|code|rate" with comma decimals.
func ParseCNB(r io.Reader) (Table, error) {
	t := make(Table)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if line <= 2 {
			continue
		}
		row := strings.TrimSpace(sc.Text())
		if row == "" {
			continue
		}

		fields := strings.Split(row, "|")
		if len(fields) != 5 {
			return nil, fmt.Errorf("line %d: expected 5 fields, got %d", line, len(fields))
		}

		code := strings.ToUpper(strings.TrimSpace(fields[3]))
		if _, err := currency.ParseISO(code); err != nil {
			// Unrecognised codes are skipped.
			continue
		}
		amount, err := parseDecimal(fields[2])
		if err != nil || amount <= 0 {
			return nil, fmt.Errorf("line %d: invalid amount %q", line, fields[2])
		}
		rate, err := parseDecimal(fields[4])
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("line %d: invalid rate %q", line, fields[4])
		}
		t[code] = rate / amount
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exchange rates: %w", err)
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("no exchange rates in response")
	}
	return t, nil
}

func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
