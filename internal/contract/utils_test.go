package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmcharts/pmc/schema"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		field    schema.Field
		input    float64
		expected string
	}{
		{name: "balance deep negative", field: schema.SBField, input: -40.1, expected: InjuryRiskValue},
		{name: "balance at injury boundary", field: schema.SBField, input: -40, expected: NeutralValue},
		{name: "balance just before optimal", field: schema.SBField, input: -5.1, expected: NeutralValue},
		{name: "balance exactly optimal", field: schema.SBField, input: -5, expected: OptimalValue},
		{name: "balance just below fifteen", field: schema.SBField, input: 14.9, expected: OptimalValue},
		{name: "balance exactly fifteen", field: schema.SBField, input: 15, expected: NeutralValue},
		{name: "balance fresh", field: schema.SBField, input: 15.1, expected: DetrainingValue},
		{name: "ramp dropping fast", field: schema.RRField, input: -4.1, expected: RampRiskValue},
		{name: "ramp steady", field: schema.RRField, input: 5, expected: NeutralValue},
		{name: "ramp at upper bound", field: schema.RRField, input: 8, expected: NeutralValue},
		{name: "ramp climbing fast", field: schema.RRField, input: 8.5, expected: RampRiskValue},
		{name: "long term high", field: schema.LTSField, input: 75.1, expected: HighFitnessValue},
		{name: "long term moderate", field: schema.LTSField, input: 75, expected: NeutralValue},
		{name: "short term never labelled", field: schema.STSField, input: 200, expected: NeutralValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.field, tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	assert.Contains(t, GetColorLabel(schema.SBField, -50), InjuryRiskValue)
	assert.Contains(t, GetColorLabel(schema.SBField, 0), OptimalValue)
	assert.Equal(t, NeutralValue, GetColorLabel(schema.STSField, 10))
}

func TestFieldDescription(t *testing.T) {
	for _, field := range schema.AllFields {
		assert.NotEmpty(t, FieldDescription(field), field)
	}
	assert.Empty(t, FieldDescription(schema.Field("watts")))
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestGetDBFilePath(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetDBFilePath(), ".pmc.db"))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{input: "yes", expected: true},
		{input: "TRUE", expected: true},
		{input: "1", expected: true},
		{input: "no", expected: false},
		{input: "False", expected: false},
		{input: " 0 ", expected: false},
		{input: "maybe", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { logger = newLogger() })

	require.NoError(t, SetupLogging(LoggingParams{Level: "debug", JSON: true}))
	assert.Equal(t, logrus.DebugLevel, Logger().GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, Logger().Formatter)

	require.NoError(t, SetupLogging(LoggingParams{}))
	assert.Equal(t, logrus.WarnLevel, Logger().GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, Logger().Formatter)

	assert.Error(t, SetupLogging(LoggingParams{Level: "chatty"}))
}
