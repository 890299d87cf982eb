package units

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/valpere/numfix/internal/lang"
)

// Dialect distinguishes British and American spellings of English forms.
type Dialect string

const (
	DialectNone Dialect = ""
	BrE         Dialect = "BrE"
	AmE         Dialect = "AmE"
)

// ParseDialect accepts "", "BrE" or "AmE".
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectNone, BrE, AmE:
		return Dialect(s), nil
	}
	return "", fmt.Errorf("unknown dialect: %q", s)
}

// Unit is one lexical form of a category in one language. Units are compared
// by identity: "pounds" the currency and "pounds" the weight are different.
type Unit struct {
	Word     string
	Category *Category
	Language *lang.Language
	// Validity restricts the numbers this form agrees with; nil means any.
	Validity     *lang.Validity
	Abbreviation bool
	Dialect      Dialect
	BeforeNumber bool
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s(%s/%s)", u.Word, u.Category.ID, u.Language.Code)
}

// FollowsNumberDirectly reports whether the unit attaches to the number
// without a space ("300°C").
func (u *Unit) FollowsNumberDirectly() bool {
	r, _ := utf8.DecodeRuneInString(u.Word)
	return r != utf8.RuneError && !unicode.IsLetter(r)
}

type entry struct {
	word     string
	category CategoryID
	language *lang.Language
	validity *lang.Validity
	abbr     bool
	dialect  Dialect
	before   bool
}

var (
	ones          = lang.Union(lang.Ones)
	paucal        = lang.Union(lang.Paucal)
	many          = lang.Union(lang.FiveAndMore)
	decimal       = lang.Union(lang.Decimal)
	notOnes       = lang.Union(lang.NotOnes)
	paucalDecimal = lang.Union(lang.Paucal, lang.Decimal)
	manyDecimal   = lang.Union(lang.FiveAndMore, lang.Decimal)
	onesToFour    = lang.Union(lang.Ones, lang.Paucal, lang.Decimal)
)

func abbr(l *lang.Language, c CategoryID, words ...string) []entry {
	out := make([]entry, 0, len(words))
	for _, w := range words {
		out = append(out, entry{word: w, category: c, language: l, abbr: true})
	}
	return out
}

func before(es []entry) []entry {
	for i := range es {
		es[i].before = true
	}
	return es
}

func form(l *lang.Language, c CategoryID, word string, v *lang.Validity) entry {
	return entry{word: word, category: c, language: l, validity: v}
}

// czech declines a noun: singular, 2-4, 5 and more, decimals.
func czech(c CategoryID, one, few, more, dec string) []entry {
	return []entry{
		form(lang.Czech, c, one, ones),
		form(lang.Czech, c, few, paucal),
		form(lang.Czech, c, more, many),
		form(lang.Czech, c, dec, decimal),
	}
}

// czechFeminine declines nouns whose decimal form equals the 2-4 form.
func czechFeminine(c CategoryID, one, few, more string) []entry {
	return []entry{
		form(lang.Czech, c, one, ones),
		form(lang.Czech, c, few, paucalDecimal),
		form(lang.Czech, c, more, many),
	}
}

func english(c CategoryID, d Dialect, one, more string) []entry {
	return []entry{
		{word: one, category: c, language: lang.English, validity: ones, dialect: d},
		{word: more, category: c, language: lang.English, validity: notOnes, dialect: d},
	}
}

func join(groups ...[]entry) []entry {
	var out []entry
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// catalogue is loaded in this order; get-by-word and scoring ties resolve to
// the earlier entry.
var catalogue = join(
	abbr(lang.Czech, KilometersPerHour, "km/h"),
	czech(KilometersPerHour, "kilometr za hodinu", "kilometry za hodinu", "kilometrů za hodinu", "kilometru za hodinu"),
	abbr(lang.English, KilometersPerHour, "km/h", "kph"),
	english(KilometersPerHour, AmE, "kilometer per hour", "kilometers per hour"),
	english(KilometersPerHour, BrE, "kilometre per hour", "kilometres per hour"),

	abbr(lang.Czech, MetersPerSecond, "m/s"),
	czech(MetersPerSecond, "metr za sekundu", "metry za sekundu", "metrů za sekundu", "metru za sekundu"),
	abbr(lang.English, MetersPerSecond, "m/s"),
	english(MetersPerSecond, AmE, "meter per second", "meters per second"),
	english(MetersPerSecond, BrE, "metre per second", "metres per second"),

	abbr(lang.Czech, MilesPerHour, "mph"),
	[]entry{
		form(lang.Czech, MilesPerHour, "míle za hodinu", onesToFour),
		form(lang.Czech, MilesPerHour, "mil za hodinu", many),
	},
	abbr(lang.English, MilesPerHour, "mph"),
	english(MilesPerHour, DialectNone, "mile per hour", "miles per hour"),

	abbr(lang.Czech, SquareMeters, "m²", "m2"),
	czech(SquareMeters, "metr čtvereční", "metry čtvereční", "metrů čtverečních", "metru čtverečního"),
	abbr(lang.English, SquareMeters, "m²", "m2", "sq m"),
	english(SquareMeters, AmE, "square meter", "square meters"),
	english(SquareMeters, BrE, "square metre", "square metres"),

	abbr(lang.Czech, SquareKilometers, "km²", "km2"),
	czech(SquareKilometers, "kilometr čtvereční", "kilometry čtvereční", "kilometrů čtverečních", "kilometru čtverečního"),
	abbr(lang.English, SquareKilometers, "km²", "km2", "sq km"),
	english(SquareKilometers, AmE, "square kilometer", "square kilometers"),
	english(SquareKilometers, BrE, "square kilometre", "square kilometres"),

	abbr(lang.Czech, CubicMeters, "m³", "m3"),
	czech(CubicMeters, "metr krychlový", "metry krychlové", "metrů krychlových", "metru krychlového"),
	abbr(lang.English, CubicMeters, "m³", "m3"),
	english(CubicMeters, AmE, "cubic meter", "cubic meters"),
	english(CubicMeters, BrE, "cubic metre", "cubic metres"),

	abbr(lang.Czech, Kilometers, "km"),
	czech(Kilometers, "kilometr", "kilometry", "kilometrů", "kilometru"),
	abbr(lang.English, Kilometers, "km"),
	english(Kilometers, AmE, "kilometer", "kilometers"),
	english(Kilometers, BrE, "kilometre", "kilometres"),

	abbr(lang.Czech, Meters, "m"),
	czech(Meters, "metr", "metry", "metrů", "metru"),
	abbr(lang.English, Meters, "m"),
	english(Meters, AmE, "meter", "meters"),
	english(Meters, BrE, "metre", "metres"),

	abbr(lang.Czech, Decimeters, "dm"),
	czech(Decimeters, "decimetr", "decimetry", "decimetrů", "decimetru"),
	abbr(lang.English, Decimeters, "dm"),
	english(Decimeters, AmE, "decimeter", "decimeters"),
	english(Decimeters, BrE, "decimetre", "decimetres"),

	abbr(lang.Czech, Centimeters, "cm"),
	czech(Centimeters, "centimetr", "centimetry", "centimetrů", "centimetru"),
	abbr(lang.English, Centimeters, "cm"),
	english(Centimeters, AmE, "centimeter", "centimeters"),
	english(Centimeters, BrE, "centimetre", "centimetres"),

	abbr(lang.Czech, Millimeters, "mm"),
	czech(Millimeters, "milimetr", "milimetry", "milimetrů", "milimetru"),
	abbr(lang.English, Millimeters, "mm"),
	english(Millimeters, AmE, "millimeter", "millimeters"),
	english(Millimeters, BrE, "millimetre", "millimetres"),

	abbr(lang.Czech, Grams, "g"),
	czech(Grams, "gram", "gramy", "gramů", "gramu"),
	abbr(lang.English, Grams, "g"),
	english(Grams, DialectNone, "gram", "grams"),

	abbr(lang.Czech, Kilograms, "kg"),
	czech(Kilograms, "kilogram", "kilogramy", "kilogramů", "kilogramu"),
	abbr(lang.English, Kilograms, "kg"),
	english(Kilograms, DialectNone, "kilogram", "kilograms"),

	abbr(lang.Czech, Tonnes, "t"),
	czechFeminine(Tonnes, "tuna", "tuny", "tun"),
	abbr(lang.English, Tonnes, "t"),
	english(Tonnes, AmE, "metric ton", "metric tons"),
	english(Tonnes, BrE, "tonne", "tonnes"),

	[]entry{
		form(lang.Czech, Crowns, "Kč", nil),
		form(lang.Czech, Crowns, "kč", nil),
	},
	abbr(lang.Czech, Crowns, "CZK"),
	[]entry{
		form(lang.Czech, Crowns, "koruna česká", ones),
		form(lang.Czech, Crowns, "koruny české", paucalDecimal),
		form(lang.Czech, Crowns, "korun českých", many),
		form(lang.Czech, Crowns, "koruna", ones),
		form(lang.Czech, Crowns, "koruny", paucalDecimal),
		form(lang.Czech, Crowns, "korun", many),
	},
	before(abbr(lang.English, Crowns, "CZK")),
	english(Crowns, DialectNone, "Czech crown", "Czech crowns"),
	english(Crowns, DialectNone, "crown", "crowns"),
	english(Crowns, DialectNone, "koruna", "korunas"),

	before(abbr(lang.Czech, Dollars, "$")),
	abbr(lang.Czech, Dollars, "USD"),
	czechFeminine(Dollars, "dolar", "dolary", "dolarů"),
	before(abbr(lang.English, Dollars, "$", "USD")),
	english(Dollars, DialectNone, "dollar", "dollars"),

	abbr(lang.Czech, Euros, "€", "EUR"),
	[]entry{form(lang.Czech, Euros, "eur", nil), form(lang.Czech, Euros, "euro", nil)},
	before(abbr(lang.English, Euros, "€", "EUR")),
	english(Euros, DialectNone, "euro", "euros"),

	before(abbr(lang.Czech, PoundsSterling, "£")),
	abbr(lang.Czech, PoundsSterling, "GBP"),
	czechFeminine(PoundsSterling, "libra", "libry", "liber"),
	before(abbr(lang.English, PoundsSterling, "£", "GBP")),
	english(PoundsSterling, DialectNone, "pound", "pounds"),

	abbr(lang.Czech, Celsius, "°C", "° C"),
	czechFeminine(Celsius, "stupeň Celsia", "stupně Celsia", "stupňů Celsia"),
	abbr(lang.English, Celsius, "°C", "° C"),
	english(Celsius, DialectNone, "degree Celsius", "degrees Celsius"),

	abbr(lang.Czech, Fahrenheit, "°F", "° F"),
	czechFeminine(Fahrenheit, "stupeň Fahrenheita", "stupně Fahrenheita", "stupňů Fahrenheita"),
	abbr(lang.English, Fahrenheit, "°F", "° F"),
	english(Fahrenheit, DialectNone, "degree Fahrenheit", "degrees Fahrenheit"),

	czechFeminine(Inches, "palec", "palce", "palců"),
	english(Inches, DialectNone, "inch", "inches"),

	czechFeminine(SquareFeet, "čtvereční stopa", "čtvereční stopy", "čtverečních stop"),
	abbr(lang.English, SquareFeet, "sq ft", "ft²"),
	english(SquareFeet, DialectNone, "square foot", "square feet"),

	czechFeminine(CubicFeet, "krychlová stopa", "krychlové stopy", "krychlových stop"),
	abbr(lang.English, CubicFeet, "cu ft", "ft³"),
	english(CubicFeet, DialectNone, "cubic foot", "cubic feet"),

	abbr(lang.Czech, Feet, "ft"),
	czechFeminine(Feet, "stopa", "stopy", "stop"),
	abbr(lang.English, Feet, "ft"),
	english(Feet, DialectNone, "foot", "feet"),

	abbr(lang.Czech, Yards, "yd"),
	czechFeminine(Yards, "yard", "yardy", "yardů"),
	abbr(lang.English, Yards, "yd"),
	english(Yards, DialectNone, "yard", "yards"),

	[]entry{
		form(lang.Czech, SquareMiles, "čtvereční míle", onesToFour),
		form(lang.Czech, SquareMiles, "čtverečních mil", many),
	},
	abbr(lang.English, SquareMiles, "sq mi"),
	english(SquareMiles, DialectNone, "square mile", "square miles"),

	[]entry{
		form(lang.Czech, Miles, "míle", onesToFour),
		form(lang.Czech, Miles, "mil", many),
	},
	abbr(lang.English, Miles, "mi"),
	english(Miles, DialectNone, "mile", "miles"),

	abbr(lang.Czech, Pounds, "lb", "lbs"),
	abbr(lang.English, Pounds, "lb", "lbs"),
	english(Pounds, DialectNone, "pound", "pounds"),

	czech(Years, "rok", "roky", "let", "roku"),
	english(Years, DialectNone, "year", "years"),
)
