package lang

import (
	"regexp"

	"golang.org/x/text/language"
)

var Czech = &Language{
	Code:               "cs",
	Tag:                language.Czech,
	Approximately:      []string{"asi tak", "cca", "cca.", "zhruba", "přibližně", "asi", "okolo", "kolem"},
	Conjunctions:       []string{"a"},
	DecimalSeparator:   ",",
	ThousandsSeparator: ".",
	GroupSeparator:     " ",
	Scales: []Scale{
		{Word: "sto", Value: 1e2, Validity: Union(Ones), Reinsert: true},
		{Word: "stě", Value: 1e2, Validity: Union(Validity{Values: []float64{2}}), Reinsert: true},
		{Word: "sta", Value: 1e2, Validity: Union(Validity{Values: []float64{3, 4}}), Reinsert: true},
		{Word: "set", Value: 1e2, Validity: Union(FiveAndMore, Decimal), Reinsert: true},
		{Word: "tisíc", Value: 1e3, Validity: Union(Ones, FiveAndMore), Reinsert: true},
		{Word: "tisíce", Value: 1e3, Validity: Union(Paucal, Decimal), Reinsert: true},
		{Word: "milion", Value: 1e6, Validity: Union(Ones), Reinsert: true},
		{Word: "miliony", Value: 1e6, Validity: Union(Paucal), Reinsert: true},
		{Word: "milionu", Value: 1e6, Validity: Union(Decimal), Reinsert: true},
		{Word: "milionů", Value: 1e6, Validity: Union(FiveAndMore, Decimal), Reinsert: true},
		{Word: "miliarda", Value: 1e9, Validity: Union(Ones), Reinsert: true},
		{Word: "miliardy", Value: 1e9, Validity: Union(Paucal, Decimal), Reinsert: true},
		{Word: "miliard", Value: 1e9, Validity: Union(FiveAndMore), Reinsert: true},
		{Word: "mld.", Value: 1e9, Validity: nil, Reinsert: false},
		{Word: "bilion", Value: 1e12, Validity: Union(Ones), Reinsert: true},
		{Word: "biliony", Value: 1e12, Validity: Union(Paucal), Reinsert: true},
		{Word: "bilionu", Value: 1e12, Validity: Union(Decimal), Reinsert: true},
		{Word: "bilionů", Value: 1e12, Validity: Union(FiveAndMore, Decimal), Reinsert: true},
		{Word: "biliarda", Value: 1e15, Validity: Union(Ones), Reinsert: true},
		{Word: "biliardy", Value: 1e15, Validity: Union(Paucal, Decimal), Reinsert: true},
		{Word: "biliard", Value: 1e15, Validity: Union(FiveAndMore), Reinsert: true},
		{Word: "trilion", Value: 1e18, Validity: Union(Ones), Reinsert: true},
		{Word: "triliony", Value: 1e18, Validity: Union(Paucal), Reinsert: true},
		{Word: "trilionu", Value: 1e18, Validity: Union(Decimal), Reinsert: true},
		{Word: "trilionů", Value: 1e18, Validity: Union(FiveAndMore, Decimal), Reinsert: true},
		{Word: "triliarda", Value: 1e21, Validity: Union(Ones), Reinsert: true},
		{Word: "triliardy", Value: 1e21, Validity: Union(Paucal, Decimal), Reinsert: true},
		{Word: "triliard", Value: 1e21, Validity: Union(FiveAndMore), Reinsert: true},
	},
	numberWords: regexp.MustCompile(
		`jedn|dva|dvě|tři|čtyř|pět|šest|sedm|osm|devět|deset|náct|cet|desát|sto|stě|sta|set|tisíc|milion|miliard`),
}
