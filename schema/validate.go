package schema

import (
	"github.com/wippyai/xlsx-bridge/errors"
	"github.com/xuri/excelize/v2"
)

// FirstCustomNumFmt is the lowest number format id reserved for custom
// formats.
const FirstCustomNumFmt = 164

// ValidateStyle checks style invariants the wire layout cannot express.
func ValidateStyle(s *excelize.Style) error {
	if s == nil {
		return errors.NilPointer(errors.PhaseValidate, []string{"Style"}, "*excelize.Style")
	}
	if s.NumFmt >= FirstCustomNumFmt && s.CustomNumFmt == nil {
		return errors.InvalidStyleField(errors.PhaseValidate, []string{"Style", "CustomNumFmt"},
			s.NumFmt, "custom number format")
	}
	return nil
}

// ValidateCharts checks an add-chart argument list. The first chart is the
// primary one and the rest are combined with it.
func ValidateCharts(charts []excelize.Chart) error {
	if len(charts) == 0 {
		return errors.InvalidInput(errors.PhaseValidate, "at least one chart is required")
	}
	return nil
}
