package schema

// Custom string types for type safety.
type (
	// Track identifies one of the parallel series computations.
	Track string

	// Field identifies one of the per-day series held by a track.
	Field string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for observation storage.
	DatabaseBackend string
)

// All tracks supported.
const (
	ActualTrack   Track = "actual" // default
	PlannedTrack  Track = "planned"
	ExpectedTrack Track = "expected"
)

// All per-day fields supported.
const (
	StressField Field = "stress" // daily stress sum
	LTSField    Field = "lts"    // long term stress (CTL)
	STSField    Field = "sts"    // short term stress (ATL)
	SBField     Field = "sb"     // stress balance (TSB)
	RRField     Field = "rr"     // ramp rate
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // in-memory
)

// DateFormat is the civil date layout used for input and output.
const DateFormat = "2006-01-02"

// AllTracks returns a list of all supported tracks in display order.
var AllTracks = []Track{ActualTrack, PlannedTrack, ExpectedTrack}

// AllFields returns a list of all supported fields in display order.
var AllFields = []Field{StressField, LTSField, STSField, SBField, RRField}

// ValidTracks lists all valid tracks.
var ValidTracks = map[Track]struct{}{
	ActualTrack:   {},
	PlannedTrack:  {},
	ExpectedTrack: {},
}

// ValidFields lists all valid fields.
var ValidFields = map[Field]struct{}{
	StressField: {},
	LTSField:    {},
	STSField:    {},
	SBField:     {},
	RRField:     {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
