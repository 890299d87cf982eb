package fixer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valpere/numfix/internal/lang"
	"github.com/valpere/numfix/internal/units"
)

var ErrInvalidConfig = errors.New("invalid fixer configuration")

// Mode selects what the number fixer corrects.
type Mode string

const (
	// ModeFixing repairs mistranslated numbers and units only.
	ModeFixing Mode = "fixing"
	// ModeRecalculating also converts correct quantities into the target systems.
	ModeRecalculating Mode = "recalculating"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFixing:
		return ModeFixing, nil
	case ModeRecalculating:
		return ModeRecalculating, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}

// ToolName names a fixing tool; tools run in configuration order.
type ToolName string

const (
	ToolSeparators ToolName = "SEPARATORS"
	ToolUnits      ToolName = "UNITS"
)

func ParseTool(s string) (ToolName, error) {
	switch ToolName(strings.ToUpper(strings.TrimSpace(s))) {
	case ToolSeparators:
		return ToolSeparators, nil
	case ToolUnits:
		return ToolUnits, nil
	}
	return "", fmt.Errorf("%w: unknown tool %q", ErrInvalidConfig, s)
}

type Config struct {
	Source *lang.Language
	Target *lang.Language

	Mode          Mode
	TargetSystems units.Systems

	// Tolerances are fractions of the source quantity.
	BaseTolerance          float64
	ApproximatelyTolerance float64

	Dialect units.Dialect
	Tools   []ToolName

	// CheckLanguages enables the language guard.
	CheckLanguages bool
}

func (c Config) Validate() error {
	switch {
	case c.Source == nil || c.Target == nil:
		return fmt.Errorf("%w: source and target languages are required", ErrInvalidConfig)
	case c.Source == c.Target:
		return fmt.Errorf("%w: source and target language are both %s", ErrInvalidConfig, c.Source)
	case c.Mode != ModeFixing && c.Mode != ModeRecalculating:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	case c.Mode == ModeRecalculating && len(c.TargetSystems) == 0:
		return fmt.Errorf("%w: recalculating needs target unit systems", ErrInvalidConfig)
	case c.BaseTolerance < 0 || c.BaseTolerance > 1:
		return fmt.Errorf("%w: base_tolerance %v outside [0,1]", ErrInvalidConfig, c.BaseTolerance)
	case c.ApproximatelyTolerance < 0 || c.ApproximatelyTolerance > 1:
		return fmt.Errorf("%w: approximately_tolerance %v outside [0,1]", ErrInvalidConfig, c.ApproximatelyTolerance)
	case len(c.Tools) == 0:
		return fmt.Errorf("%w: no tools selected", ErrInvalidConfig)
	}
	return nil
}
