package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/pmcharts/pmc/core/metric"
	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays  = 90
	DefaultLookaheadDays = 14
	DefaultPrecision     = 1
	MaxPrecision         = 4
	DefaultMetric        = "tss"
)

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	LTSDays          int
	STSDays          int
	ShowBalanceToday bool
	SeedExpected     bool

	Metric string // Metric name or expression
	Filter string // Boolean filter expression, empty accepts everything

	Tracks    []schema.Track
	StartTime time.Time
	EndTime   time.Time
	Today     time.Time // Civil date treated as today

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	LogLevel string
	LogJSON  bool
	LogFile  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Engine settings ---
	LTSDays      int    `mapstructure:"lts-days"`
	STSDays      int    `mapstructure:"sts-days"`
	SBToday      string `mapstructure:"sb-today"`
	SeedExpected string `mapstructure:"seed-expected"`
	Metric       string `mapstructure:"metric"`
	Filter       string `mapstructure:"filter"`

	// --- Window settings ---
	Track string `mapstructure:"track"`
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
	Today string `mapstructure:"today"`

	// --- Output settings ---
	Precision  int    `mapstructure:"precision"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	// --- Storage settings ---
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Logging settings ---
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	LogFile   string `mapstructure:"log-file"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Tracks != nil {
		clone.Tracks = make([]schema.Track, len(c.Tracks))
		copy(clone.Tracks, c.Tracks)
	}
	return &clone
}

// EngineConfig returns the immutable engine settings.
func (c *Config) EngineConfig() pmc.Config {
	return pmc.Config{
		LTSDays:          c.LTSDays,
		STSDays:          c.STSDays,
		ShowBalanceToday: c.ShowBalanceToday,
		SeedExpected:     c.SeedExpected,
	}.Normalized()
}

// Clock returns a function reporting the configured today.
func (c *Config) Clock() func() time.Time {
	today := c.Today
	if today.IsZero() {
		return time.Now
	}
	return func() time.Time { return today }
}

// LoggingParams returns the logging settings.
func (c *Config) LoggingParams() LoggingParams {
	return LoggingParams{Level: c.LogLevel, JSON: c.LogJSON, LogFile: c.LogFile}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	return processAndValidateAt(cfg, input, time.Now())
}

func processAndValidateAt(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateEngineInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input, now); err != nil {
		return err
	}
	if err := validateOutputInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return validateLoggingInputs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateEngineInputs processes the windows, flags and expressions for the engine.
func validateEngineInputs(cfg *Config, input *ConfigRawInput) error {
	// Non-positive windows fall back to the defaults
	cfg.LTSDays = input.LTSDays
	if cfg.LTSDays <= 0 {
		cfg.LTSDays = pmc.DefaultLTSDays
	}
	cfg.STSDays = input.STSDays
	if cfg.STSDays <= 0 {
		cfg.STSDays = pmc.DefaultSTSDays
	}
	if cfg.STSDays >= cfg.LTSDays {
		return fmt.Errorf("sts-days (%d) must be shorter than lts-days (%d)", cfg.STSDays, cfg.LTSDays)
	}

	sbToday, err := parseOptionalBool(input.SBToday)
	if err != nil {
		return fmt.Errorf("invalid --sb-today value: %w", err)
	}
	cfg.ShowBalanceToday = sbToday

	seedExpected, err := parseOptionalBool(input.SeedExpected)
	if err != nil {
		return fmt.Errorf("invalid --seed-expected value: %w", err)
	}
	cfg.SeedExpected = seedExpected

	cfg.Metric = strings.TrimSpace(input.Metric)
	if cfg.Metric == "" {
		cfg.Metric = DefaultMetric
	}
	if _, err := metric.Compile(cfg.Metric); err != nil {
		return fmt.Errorf("invalid --metric: %w", err)
	}

	cfg.Filter = strings.TrimSpace(input.Filter)
	if _, err := metric.CompileFilter(cfg.Filter); err != nil {
		return fmt.Errorf("invalid --filter: %w", err)
	}
	return nil
}

// processTimeRange handles the date parsing and window validation.
func processTimeRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.Today = pmc.Civil(now)
	if input.Today != "" {
		t, err := ParseDate(input.Today, now)
		if err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
		cfg.Today = t
	}

	// Relative window bounds are anchored on the configured today
	cfg.StartTime = cfg.Today.AddDate(0, 0, -DefaultLookbackDays)
	cfg.EndTime = cfg.Today.AddDate(0, 0, DefaultLookaheadDays)

	if input.Start != "" {
		t, err := ParseDate(input.Start, cfg.Today)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		cfg.StartTime = t
	}
	if input.End != "" {
		t, err := ParseDate(input.End, cfg.Today)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		cfg.EndTime = t
	}

	if cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start date (%s) cannot be after end date (%s)",
			cfg.StartTime.Format(schema.DateFormat), cfg.EndTime.Format(schema.DateFormat))
	}

	tracks, err := ParseTracks(input.Track)
	if err != nil {
		return err
	}
	cfg.Tracks = tracks
	return nil
}

// ParseTracks parses a comma separated list of tracks. Empty or "all" selects every track.
func ParseTracks(s string) ([]schema.Track, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return append([]schema.Track(nil), schema.AllTracks...), nil
	}
	var tracks []schema.Track
	for part := range strings.SplitSeq(s, ",") {
		track := schema.Track(strings.TrimSpace(part))
		if track == "" {
			continue
		}
		if _, ok := schema.ValidTracks[track]; !ok {
			return nil, fmt.Errorf("invalid track '%s'. must be actual, planned, expected or all", track)
		}
		tracks = append(tracks, track)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no track selected in '%s'", s)
	}
	return tracks, nil
}

// ParseField parses a series field name.
func ParseField(s string) (schema.Field, error) {
	field := schema.Field(strings.ToLower(strings.TrimSpace(s)))
	switch field {
	case "ctl":
		field = schema.LTSField
	case "atl":
		field = schema.STSField
	case "tsb":
		field = schema.SBField
	}
	if _, ok := schema.ValidFields[field]; !ok {
		return "", fmt.Errorf("invalid field '%s'. must be stress, lts, sts, sb, rr", s)
	}
	return field, nil
}

// validateOutputInputs processes the output format and presentation settings.
func validateOutputInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := parseOptionalBool(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	return nil
}

// validateBackendConfig validates the store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateLoggingInputs validates the logging settings.
func validateLoggingInputs(cfg *Config, input *ConfigRawInput) error {
	if _, err := GetLevel(input.LogLevel); err != nil {
		return err
	}
	cfg.LogLevel = input.LogLevel

	switch strings.ToLower(input.LogFormat) {
	case "", "text":
		cfg.LogJSON = false
	case "json":
		cfg.LogJSON = true
	default:
		return fmt.Errorf("invalid log format '%s'. must be text or json", input.LogFormat)
	}
	cfg.LogFile = input.LogFile
	return nil
}

func parseOptionalBool(s string) (bool, error) {
	if strings.TrimSpace(s) == "" {
		return false, nil
	}
	return ParseBoolString(s)
}
