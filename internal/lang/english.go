package lang

import (
	"regexp"

	"golang.org/x/text/language"
)

var English = &Language{
	Code:               "en",
	Tag:                language.English,
	Approximately:      []string{"about", "around", "roughly", "approximately", "nearly", "almost", "some"},
	Conjunctions:       []string{"and"},
	DecimalSeparator:   ".",
	ThousandsSeparator: ",",
	GroupSeparator:     ",",
	Scales: []Scale{
		{Word: "thousand", Value: 1e3, Reinsert: true},
		{Word: "thousands", Value: 1e3},
		{Word: "million", Value: 1e6, Reinsert: true},
		{Word: "millions", Value: 1e6},
		{Word: "m", Value: 1e6},
		{Word: "billion", Value: 1e9, Reinsert: true},
		{Word: "billions", Value: 1e9},
		{Word: "bn", Value: 1e9},
		{Word: "trillion", Value: 1e12, Reinsert: true},
		{Word: "trillions", Value: 1e12},
		{Word: "quadrillion", Value: 1e15, Reinsert: true},
		{Word: "quintillion", Value: 1e18, Reinsert: true},
		{Word: "sextillion", Value: 1e21, Reinsert: true},
	},
	numberWords: regexp.MustCompile(
		`\b(zero|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|\w+teen|twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety|hundred|thousand|million|billion|trillion)\b`),
}
