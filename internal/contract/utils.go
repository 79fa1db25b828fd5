package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pmcharts/pmc/schema"
)

// Label constants.
const (
	InjuryRiskValue  = "Injury risk" // Deeply negative balance
	DetrainingValue  = "Detraining"  // Balance too fresh for too long
	OptimalValue     = "Optimal"     // Balance in the productive band
	RampRiskValue    = "Ramp risk"   // Load changing too fast either way
	HighFitnessValue = "High"        // Long term stress above the fitness mark
	NeutralValue     = "-"           // Nothing notable
)

// Color variables for console output.
var (
	RiskColor    = color.New(color.FgRed, color.Bold) // RiskColor represents standard danger.
	CautionColor = color.New(color.FgYellow)          // CautionColor represents standard caution, not bold.
	GoodColor    = color.New(color.FgGreen)           // GoodColor represents a healthy signal.
)

// GetPlainLabel returns a plain text label for a field value. Only balance,
// ramp rate and long term stress carry labels. This is the core logic used
// for CSV, JSON, and table printing.
func GetPlainLabel(field schema.Field, value float64) string {
	switch field {
	case schema.SBField:
		switch {
		case value < -40:
			return InjuryRiskValue
		case value > 15:
			return DetrainingValue
		case value >= -5 && value < 15:
			return OptimalValue
		}
	case schema.RRField:
		if value < -4 || value > 8 {
			return RampRiskValue
		}
	case schema.LTSField:
		if value > 75 {
			return HighFitnessValue
		}
	}
	return NeutralValue
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(field schema.Field, value float64) string {
	text := GetPlainLabel(field, value)

	switch text {
	case InjuryRiskValue, RampRiskValue:
		return RiskColor.Sprint(text)
	case DetrainingValue:
		return CautionColor.Sprint(text)
	case OptimalValue, HighFitnessValue:
		return GoodColor.Sprint(text)
	default:
		return text
	}
}

// FieldDescription returns the user description of a series field.
func FieldDescription(field schema.Field) string {
	switch field {
	case schema.LTSField:
		return "CTL/LTS: Chronic Training Load / Long Term Stress. The dose of training accumulated over a longer " +
			"period, an exponentially weighted moving average of the selected load metric, 42 days by default. " +
			"It is claimed to relate to fitness."
	case schema.STSField:
		return "ATL/STS: Acute Training Load / Short Term Stress. The dose of training accumulated over a short " +
			"period, usually 3 to 10 days and 7 by default. It is claimed to relate to fatigue."
	case schema.SBField:
		return "TSB/SB: Training Stress Balance. Yesterday's long term stress minus yesterday's short term stress. " +
			"It is claimed to relate to freshness."
	case schema.RRField:
		return "RR: Ramp Rate. The change in long term stress over the short term window. Large values up or " +
			"down indicate a risk of injury or an aggressive taper."
	case schema.StressField:
		return "Stress: the sum of the selected load metric over every observation on the day."
	default:
		return ""
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is set.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetDBFilePath returns the path to the default SQLite DB file.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pmc.db"
	}
	return filepath.Join(homeDir, ".pmc.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
