package units

import (
	"fmt"
	"strings"
)

// System is a unit system a category belongs to.
type System string

const (
	SystemSI          System = "SI"
	SystemImperial    System = "IMPERIAL"
	SystemUSCustomary System = "US_CUSTOMARY"
	SystemCZK         System = "CZK"
	SystemUSD         System = "USD"
	SystemGBP         System = "GBP"
	SystemEUR         System = "EUR"
	SystemCelsius     System = "C"
	SystemFahrenheit  System = "F"
)

var allSystems = []System{
	SystemSI, SystemImperial, SystemUSCustomary,
	SystemCZK, SystemUSD, SystemGBP, SystemEUR,
	SystemCelsius, SystemFahrenheit,
}

// ParseSystem accepts a system name case-insensitively.
func ParseSystem(name string) (System, error) {
	for _, s := range allSystems {
		if strings.EqualFold(string(s), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown unit system: %q", name)
}

func (s System) currency() bool {
	switch s {
	case SystemCZK, SystemUSD, SystemGBP, SystemEUR:
		return true
	}
	return false
}

// Systems is a set of unit systems kept in declaration order.
type Systems []System

func (ss Systems) Has(s System) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func (ss Systems) HasAny(s ...System) bool {
	for _, x := range s {
		if ss.Has(x) {
			return true
		}
	}
	return false
}

func (ss Systems) overlaps(other Systems) bool {
	return ss.HasAny(other...)
}

// CategoryID names a unit kind.
type CategoryID string

const (
	MetersPerSecond   CategoryID = "MS"
	KilometersPerHour CategoryID = "KMH"
	MilesPerHour      CategoryID = "MPH"

	SquareMeters     CategoryID = "M2"
	SquareKilometers CategoryID = "KM2"
	SquareFeet       CategoryID = "FT2"
	SquareMiles      CategoryID = "MI2"

	CubicMeters CategoryID = "M3"
	CubicFeet   CategoryID = "FT3"

	Meters      CategoryID = "M"
	Kilometers  CategoryID = "KM"
	Decimeters  CategoryID = "DM"
	Centimeters CategoryID = "CM"
	Millimeters CategoryID = "MM"

	Feet   CategoryID = "FT"
	Inches CategoryID = "IN"
	Yards  CategoryID = "YD"
	Miles  CategoryID = "MI"

	Grams     CategoryID = "G"
	Kilograms CategoryID = "KG"
	Tonnes    CategoryID = "T"
	Pounds    CategoryID = "LB"

	Crowns         CategoryID = "CZK"
	Dollars        CategoryID = "USD"
	PoundsSterling CategoryID = "GBP"
	Euros          CategoryID = "EUR"

	Celsius    CategoryID = "C"
	Fahrenheit CategoryID = "F"

	Years CategoryID = "YEARS"
)

// Category is an abstract unit kind. Base categories of a conversion family
// carry Conversion; derived ones carry Base and BaseCoefficient.
type Category struct {
	ID              CategoryID
	Systems         Systems
	Base            CategoryID
	BaseCoefficient float64
	Conversion      Conversion
}

func (c *Category) String() string { return string(c.ID) }

// IsBase reports whether the category is the root of its family.
func (c *Category) IsBase() bool { return c.Base == "" }

var (
	si       = Systems{SystemSI}
	imperial = Systems{SystemImperial, SystemUSCustomary}
)

// categoryTable lists every category; derived ones follow their base.
var categoryTable = []Category{
	{ID: MetersPerSecond, Systems: si, Conversion: ConvertSpeed},
	{ID: KilometersPerHour, Systems: si, Base: MetersPerSecond, BaseCoefficient: 1000.0 / 3600.0},
	{ID: MilesPerHour, Systems: imperial, Conversion: ConvertSpeed},

	{ID: SquareMeters, Systems: si, Conversion: ConvertArea},
	{ID: SquareKilometers, Systems: si, Base: SquareMeters, BaseCoefficient: 1e6},
	{ID: SquareFeet, Systems: imperial, Conversion: ConvertArea},
	{ID: SquareMiles, Systems: imperial, Base: SquareFeet, BaseCoefficient: 27878400},

	{ID: CubicMeters, Systems: si, Conversion: ConvertVolume},
	{ID: CubicFeet, Systems: imperial, Conversion: ConvertVolume},

	{ID: Meters, Systems: si, Conversion: ConvertLength},
	{ID: Kilometers, Systems: si, Base: Meters, BaseCoefficient: 1000},
	{ID: Decimeters, Systems: si, Base: Meters, BaseCoefficient: 0.1},
	{ID: Centimeters, Systems: si, Base: Meters, BaseCoefficient: 0.01},
	{ID: Millimeters, Systems: si, Base: Meters, BaseCoefficient: 0.001},

	{ID: Feet, Systems: imperial, Conversion: ConvertLength},
	{ID: Inches, Systems: imperial, Base: Feet, BaseCoefficient: 1.0 / 12.0},
	{ID: Yards, Systems: imperial, Base: Feet, BaseCoefficient: 3},
	{ID: Miles, Systems: imperial, Base: Feet, BaseCoefficient: 5280},

	{ID: Grams, Systems: si, Conversion: ConvertWeight},
	{ID: Kilograms, Systems: si, Base: Grams, BaseCoefficient: 1000},
	{ID: Tonnes, Systems: si, Base: Grams, BaseCoefficient: 1e6},
	{ID: Pounds, Systems: imperial, Conversion: ConvertWeight},

	{ID: Crowns, Systems: Systems{SystemCZK}, Conversion: ConvertCurrency},
	{ID: Dollars, Systems: Systems{SystemUSD}, Conversion: ConvertCurrency},
	{ID: PoundsSterling, Systems: Systems{SystemGBP}, Conversion: ConvertCurrency},
	{ID: Euros, Systems: Systems{SystemEUR}, Conversion: ConvertCurrency},

	{ID: Celsius, Systems: Systems{SystemCelsius, SystemSI}, Conversion: ConvertTemperature},
	{ID: Fahrenheit, Systems: Systems{SystemFahrenheit, SystemImperial, SystemUSCustomary}, Conversion: ConvertTemperature},

	{ID: Years},
}
