package fixer

import "github.com/valpere/numfix/internal/matcher"

// Mark is a diagnostic label attached to a fixed pair.
type Mark string

const (
	MarkSingleNumberSentence   Mark = "SINGLE_NUMBER_SENTENCE"
	MarkMultipleNumberSentence Mark = "MULTIPLE_NUMBER_SENTENCE"
	MarkDifferentCountNumbers  Mark = "DIFFERENT_COUNT_NUMBERS"
	MarkNumberAsWord           Mark = "NUMBER_AS_WORD"
	MarkNumbersModifiers       Mark = "NUMBERS_MODIFIERS"

	MarkOnlyNumberSame         Mark = "ONLY_NUMBER_SAME"
	MarkCorrectNumberUnit      Mark = "CORRECT_NUMBER_UNIT"
	MarkHalfUnitSameNumber     Mark = "HALF_UNIT_SAME_NUMBER"
	MarkOnlyNumberDifferent    Mark = "ONLY_NUMBER_DIFFERENT"
	MarkCorrectNumberWrongUnit Mark = "CORRECT_NUMBER_WRONG_UNIT"
	MarkWrongNumberCorrectUnit Mark = "WRONG_NUMBER_CORRECT_UNIT"
	MarkWrongNumberUnit        Mark = "WRONG_NUMBER_UNIT"

	MarkAppliedToleranceRate    Mark = "APPLIED_TOLERANCE_RATE"
	MarkRecalculated            Mark = "RECALCULATED"
	MarkUnableToRecalculate     Mark = "UNABLE_TO_RECALCULATE"
	MarkDecimalSeparatorProblem Mark = "DECIMAL_SEPARATOR_PROBLEM"
	MarkDialectUnified          Mark = "DIALECT_UNIFIED"
	MarkFixed                   Mark = "FIXED"

	MarkException     Mark = "EXCEPTION"
	MarkWrongLanguage Mark = "WRONG_LANGUAGE"
	MarkCached        Mark = "CACHED"

	MarkSeparatorsCorrect  Mark = "SEPARATORS_CORRECT"
	MarkSwappedSeparators  Mark = "SWAPPED_SEPARATORS"
	MarkDecimalPointAsTime Mark = "DECIMAL_POINT_AS_TIME"
)

// AllMarks lists every mark in report order.
var AllMarks = []Mark{
	MarkSingleNumberSentence, MarkMultipleNumberSentence, MarkDifferentCountNumbers,
	MarkNumberAsWord, MarkNumbersModifiers,
	MarkOnlyNumberSame, MarkCorrectNumberUnit, MarkHalfUnitSameNumber, MarkOnlyNumberDifferent,
	MarkCorrectNumberWrongUnit, MarkWrongNumberCorrectUnit, MarkWrongNumberUnit,
	MarkAppliedToleranceRate, MarkRecalculated, MarkUnableToRecalculate,
	MarkDecimalSeparatorProblem, MarkDialectUnified, MarkFixed,
	MarkException, MarkWrongLanguage, MarkCached,
	MarkSeparatorsCorrect, MarkSwappedSeparators, MarkDecimalPointAsTime,
}

var tierMarks = map[matcher.Tier]Mark{
	matcher.OnlyNumbersSame:              MarkOnlyNumberSame,
	matcher.SameNumberSameUnit:           MarkCorrectNumberUnit,
	matcher.HalfUnitSameNumber:           MarkHalfUnitSameNumber,
	matcher.OnlyNumbersDifferent:         MarkOnlyNumberDifferent,
	matcher.SameNumberDifferentUnit:      MarkCorrectNumberWrongUnit,
	matcher.DifferentNumberSameUnit:      MarkWrongNumberCorrectUnit,
	matcher.DifferentNumberDifferentUnit: MarkWrongNumberUnit,
}

// TierMark is the mark recorded for every match resolved at t.
func TierMark(t matcher.Tier) Mark { return tierMarks[t] }

// Count tallies marks.
func Count(marks []Mark) map[Mark]int {
	out := make(map[Mark]int, len(marks))
	for _, m := range marks {
		out[m]++
	}
	return out
}

// Has reports whether marks contains m.
func Has(marks []Mark, m Mark) bool {
	for _, x := range marks {
		if x == m {
			return true
		}
	}
	return false
}
