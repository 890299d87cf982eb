package units

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoConversion means no conversion function or no route to any of the
	// requested systems exists.
	ErrNoConversion = errors.New("no conversion available")
	// ErrIncompatible means a conversion ran but landed in an unrelated category.
	ErrIncompatible = errors.New("incompatible unit categories")
)

// RateProvider converts currency amounts between ISO 4217 codes. Equal codes
// must be treated as identity.
type RateProvider interface {
	Rate(ctx context.Context, from, to string, amount float64) (float64, error)
}

// Conversion converts a quantity in base category from into one of targets.
// It returns the input unchanged when from already belongs to targets.
type Conversion func(ctx context.Context, rates RateProvider, n float64, from CategoryID, targets Systems) (float64, CategoryID, error)

var (
	ConvertLength = linear(Meters, Feet, 0.3048)
	ConvertWeight = linear(Grams, Pounds, 453.59237)
	ConvertArea   = linear(SquareMeters, SquareFeet, 1/10.764)
	ConvertVolume = linear(CubicMeters, CubicFeet, 1/35.315)
	ConvertSpeed  = linear(MetersPerSecond, MilesPerHour, 0.44704)
)

// linear builds an SI/imperial conversion where one imperial unit equals
// siPerImperial SI units.
func linear(siBase, imperialBase CategoryID, siPerImperial float64) Conversion {
	return func(_ context.Context, _ RateProvider, n float64, from CategoryID, targets Systems) (float64, CategoryID, error) {
		switch from {
		case siBase:
			if targets.Has(SystemSI) {
				return n, siBase, nil
			}
			if targets.overlaps(imperial) {
				return n / siPerImperial, imperialBase, nil
			}
		case imperialBase:
			if targets.overlaps(imperial) {
				return n, imperialBase, nil
			}
			if targets.Has(SystemSI) {
				return n * siPerImperial, siBase, nil
			}
		default:
			return 0, "", fmt.Errorf("%w: %s is neither %s nor %s", ErrNoConversion, from, siBase, imperialBase)
		}
		return 0, "", fmt.Errorf("%w: %s to %v", ErrNoConversion, from, targets)
	}
}

func ConvertTemperature(_ context.Context, _ RateProvider, n float64, from CategoryID, targets Systems) (float64, CategoryID, error) {
	toF := targets.HasAny(SystemFahrenheit, SystemImperial, SystemUSCustomary)
	toC := targets.HasAny(SystemCelsius, SystemSI)

	switch from {
	case Celsius:
		if toC {
			return n, Celsius, nil
		}
		if toF {
			return n*1.8 + 32, Fahrenheit, nil
		}
	case Fahrenheit:
		if toF {
			return n, Fahrenheit, nil
		}
		if toC {
			return (n - 32) / 1.8, Celsius, nil
		}
	default:
		return 0, "", fmt.Errorf("%w: %s is not a temperature", ErrNoConversion, from)
	}
	return 0, "", fmt.Errorf("%w: %s to %v", ErrNoConversion, from, targets)
}

// ConvertCurrency delegates the amount to rates, picking the first currency
// system among targets.
func ConvertCurrency(ctx context.Context, rates RateProvider, n float64, from CategoryID, targets Systems) (float64, CategoryID, error) {
	if targets.Has(System(from)) {
		return n, from, nil
	}
	for _, t := range targets {
		if !t.currency() {
			continue
		}
		if rates == nil {
			return 0, "", fmt.Errorf("%w: no exchange-rate provider for %s to %s", ErrNoConversion, from, t)
		}
		v, err := rates.Rate(ctx, string(from), string(t), n)
		if err != nil {
			return 0, "", fmt.Errorf("failed to convert %s to %s: %w", from, t, err)
		}
		return v, CategoryID(t), nil
	}
	return 0, "", fmt.Errorf("%w: %s to %v", ErrNoConversion, from, targets)
}
