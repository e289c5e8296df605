package models

import "strings"

// Phase selects which bucket of answer sheets a report reads.
type Phase int

const (
	// PhaseMidpoint reads the sheets recorded at the middle of the cycle.
	PhaseMidpoint Phase = iota
	// PhaseFinal reads the sheets recorded at the end of the cycle.
	PhaseFinal
)

// PhaseCount is the number of sheet buckets carried by every syllabus.
const PhaseCount = 2

// DefaultMidpointLabel is the stage label that selects PhaseMidpoint.
const DefaultMidpointLabel = "MITAD DE CICLO"

// ResolveStage maps a free-text stage label onto a phase. Only a
// case-insensitive match on midpointLabel selects PhaseMidpoint; every other
// label, including unknown ones, falls through to PhaseFinal.
func ResolveStage(label, midpointLabel string) Phase {
	if midpointLabel == "" {
		midpointLabel = DefaultMidpointLabel
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(midpointLabel)) {
		return PhaseMidpoint
	}
	return PhaseFinal
}

// SheetIndex returns the position of the phase bucket inside Syllabus.Sheets.
func (p Phase) SheetIndex() int {
	if p == PhaseMidpoint {
		return 0
	}
	return 1
}

// ShortName returns the upper-case short denomination used in titles and file names.
func (p Phase) ShortName() string {
	if p == PhaseMidpoint {
		return "MITAD"
	}
	return "FINAL"
}

// DisplayName returns the capitalised short denomination ("Mitad", "Final").
func (p Phase) DisplayName() string {
	return CapitalizeFirst(p.ShortName())
}

// String implements fmt.Stringer.
func (p Phase) String() string {
	if p == PhaseMidpoint {
		return "MIDPOINT"
	}
	return "FINAL"
}

// CapitalizeFirst upper-cases the first letter and lower-cases the rest.
func CapitalizeFirst(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
