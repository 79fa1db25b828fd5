package contract

import (
	"testing"
	"time"

	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configNow = time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Metric:       "tss",
		Precision:    1,
		Output:       "text",
		Color:        "yes",
		StoreBackend: "sqlite",
		LogLevel:     "warn",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config"},
		{
			name:   "metric expression",
			modify: func(in *ConfigRawInput) { in.Metric = `m["tss"] + m["trimp"] / 2.0` },
		},
		{
			name:        "broken metric expression",
			modify:      func(in *ConfigRawInput) { in.Metric = `m["tss"] +` },
			expectError: "invalid --metric",
		},
		{
			name:        "non boolean filter",
			modify:      func(in *ConfigRawInput) { in.Filter = `duration * 2.0` },
			expectError: "invalid --filter",
		},
		{
			name:        "short window not shorter",
			modify:      func(in *ConfigRawInput) { in.LTSDays = 7; in.STSDays = 7 },
			expectError: "must be shorter",
		},
		{
			name:        "invalid sb-today",
			modify:      func(in *ConfigRawInput) { in.SBToday = "maybe" },
			expectError: "invalid --sb-today",
		},
		{
			name:        "invalid track",
			modify:      func(in *ConfigRawInput) { in.Track = "future" },
			expectError: "invalid track",
		},
		{
			name:        "start after end",
			modify:      func(in *ConfigRawInput) { in.Start = "2024-03-10"; in.End = "2024-03-01" },
			expectError: "cannot be after",
		},
		{
			name:        "invalid start",
			modify:      func(in *ConfigRawInput) { in.Start = "last tuesday" },
			expectError: "invalid --start",
		},
		{
			name:        "invalid output",
			modify:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: "invalid output format",
		},
		{
			name:        "parquet without file",
			modify:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: "--output-file is required",
		},
		{
			name:        "precision too large",
			modify:      func(in *ConfigRawInput) { in.Precision = 9 },
			expectError: "precision must be between",
		},
		{
			name:        "invalid backend",
			modify:      func(in *ConfigRawInput) { in.StoreBackend = "redis" },
			expectError: "invalid store backend",
		},
		{
			name:        "mysql without connection",
			modify:      func(in *ConfigRawInput) { in.StoreBackend = "mysql" },
			expectError: "store-db-connect is required",
		},
		{
			name:        "invalid log level",
			modify:      func(in *ConfigRawInput) { in.LogLevel = "loud" },
			expectError: "invalid log level",
		},
		{
			name:        "invalid log format",
			modify:      func(in *ConfigRawInput) { in.LogFormat = "xml" },
			expectError: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			if tt.modify != nil {
				tt.modify(input)
			}
			cfg := &Config{}
			err := processAndValidateAt(cfg, input, configNow)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, processAndValidateAt(cfg, &ConfigRawInput{}, configNow))

	assert.Equal(t, pmc.DefaultLTSDays, cfg.LTSDays)
	assert.Equal(t, pmc.DefaultSTSDays, cfg.STSDays)
	assert.False(t, cfg.ShowBalanceToday)
	assert.Equal(t, DefaultMetric, cfg.Metric)
	assert.Equal(t, schema.AllTracks, cfg.Tracks)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), cfg.Today)
	assert.Equal(t, cfg.Today.AddDate(0, 0, -DefaultLookbackDays), cfg.StartTime)
	assert.Equal(t, cfg.Today.AddDate(0, 0, DefaultLookaheadDays), cfg.EndTime)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
}

func TestProcessAndValidateValues(t *testing.T) {
	input := &ConfigRawInput{
		LTSDays:        -1,
		STSDays:        5,
		SBToday:        "yes",
		SeedExpected:   "1",
		Metric:         "BikeStress",
		Filter:         `sport == "bike"`,
		Track:          "actual, expected",
		Today:          "2024-02-01",
		Start:          "2 weeks ago",
		End:            "10 days ahead",
		Precision:      2,
		Output:         "CSV",
		Color:          "no",
		StoreBackend:   "PostgreSQL",
		StoreDBConnect: "host=localhost dbname=pmc",
		LogLevel:       "debug",
		LogFormat:      "json",
	}
	cfg := &Config{}
	require.NoError(t, processAndValidateAt(cfg, input, configNow))

	assert.Equal(t, pmc.DefaultLTSDays, cfg.LTSDays)
	assert.Equal(t, 5, cfg.STSDays)
	assert.True(t, cfg.ShowBalanceToday)
	assert.True(t, cfg.SeedExpected)
	assert.Equal(t, []schema.Track{schema.ActualTrack, schema.ExpectedTrack}, cfg.Tracks)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), cfg.Today)
	assert.Equal(t, time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC), cfg.StartTime)
	assert.Equal(t, time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC), cfg.EndTime)
	assert.Equal(t, schema.CSVOut, cfg.Output)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, schema.PostgreSQLBackend, cfg.StoreBackend)
	assert.True(t, cfg.LogJSON)

	engineCfg := cfg.EngineConfig()
	assert.Equal(t, pmc.Config{LTSDays: 42, STSDays: 5, ShowBalanceToday: true, SeedExpected: true}, engineCfg)
	assert.Equal(t, cfg.Today, cfg.Clock()())
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Tracks: []schema.Track{schema.ActualTrack}, Metric: "tss"}
	clone := cfg.Clone()
	clone.Tracks[0] = schema.PlannedTrack
	clone.Metric = "trimp"

	assert.Equal(t, schema.ActualTrack, cfg.Tracks[0])
	assert.Equal(t, "tss", cfg.Metric)
}

func TestParseField(t *testing.T) {
	tests := []struct {
		input    string
		expected schema.Field
		wantErr  bool
	}{
		{input: "lts", expected: schema.LTSField},
		{input: "CTL", expected: schema.LTSField},
		{input: "atl", expected: schema.STSField},
		{input: " tsb ", expected: schema.SBField},
		{input: "rr", expected: schema.RRField},
		{input: "stress", expected: schema.StressField},
		{input: "watts", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			field, err := ParseField(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, field)
		})
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{name: "sqlite empty", backend: schema.SQLiteBackend},
		{name: "none", backend: schema.NoneBackend},
		{name: "mysql valid", backend: schema.MySQLBackend, connStr: "user:pass@tcp(localhost:3306)/pmc"},
		{name: "mysql missing tcp", backend: schema.MySQLBackend, connStr: "user:pass@localhost/pmc", wantErr: true},
		{name: "postgres valid", backend: schema.PostgreSQLBackend, connStr: "host=localhost dbname=pmc"},
		{name: "postgres missing dbname", backend: schema.PostgreSQLBackend, connStr: "host=localhost", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
