// Package rates provides exchange rates for currency conversion. Every
// provider is backed by a Table of CZK values per currency unit.
package rates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/currency"
)

// Home is the currency every table is quoted in.
const Home = "CZK"

var ErrUnknownCurrency = errors.New("unknown currency")

// Table maps ISO 4217 codes to the CZK value of one unit.
type Table map[string]float64

// Value returns the CZK value of one unit of code.
func (t Table) Value(code string) (float64, error) {
	code = strings.ToUpper(code)
	if code == Home {
		return 1, nil
	}
	v, ok := t[code]
	if !ok || v <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return v, nil
}

// Rate converts amount from one currency into another through CZK.
func (t Table) Rate(from, to string, amount float64) (float64, error) {
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	fromCZK, err := t.Value(from)
	if err != nil {
		return 0, err
	}
	toCZK, err := t.Value(to)
	if err != nil {
		return 0, err
	}
	return amount * fromCZK / toCZK, nil
}

// Codes returns the currencies in the table, sorted.
func (t Table) Codes() []string {
	codes := make([]string, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Validate rejects codes that are not ISO 4217 currencies and non-positive
// values.
func (t Table) Validate() error {
	for code, v := range t {
		if _, err := currency.ParseISO(code); err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
		}
		if v <= 0 {
			return fmt.Errorf("invalid rate for %s: %v", code, v)
		}
	}
	return nil
}

// Static serves a fixed table, typically from configuration.
type Static struct {
	table Table
}

func NewStatic(czk map[string]float64) (*Static, error) {
	t := make(Table, len(czk))
	for code, v := range czk {
		t[strings.ToUpper(code)] = v
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load static rates: %w", err)
	}
	return &Static{table: t}, nil
}

func (s *Static) Rate(_ context.Context, from, to string, amount float64) (float64, error) {
	return s.table.Rate(from, to, amount)
}

func (s *Static) Table() Table { return s.table }
