package catalog

import (
	"context"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"github.com/naluwei/fatigueset-catalog/internal/sensor"
)

// ErrTableNotFound is returned when a read refers to a table that does not
// exist in the catalog. Callers use it to distinguish a bad table name from
// a storage failure.
var ErrTableNotFound = errors.New("table not found")

// Store provides an interface for managing the sensor catalog database.
// The write side is used by the extractor only; the read side backs the
// viewer and the query tool. Extraction and serving are sequential phases,
// a single Store owns the database file for the duration of a run.
type Store interface {
	// SeedDictionary writes the data dictionary entries for the given
	// sensor definitions. Entries are keyed by sensor name and replaced
	// on re-runs, so seeding is idempotent.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - defs: Sensor definitions to describe
	SeedDictionary(ctx context.Context, defs []sensor.Definition) error

	// EnsureSensorTable creates the destination table and its dedup index
	// for a sensor definition if they do not exist yet. Safe to call once
	// per file encountered.
	EnsureSensorTable(ctx context.Context, def sensor.Definition) error

	// EnsureParticipant creates a participant record on first encounter.
	// An existing record is left untouched, so participant identifiers
	// are stable across extraction runs.
	EnsureParticipant(ctx context.Context, participantID string) error

	// ImportParticipants loads participant metadata rows (from the data
	// root's metadata.csv). Columns are mapped by header name; rows are
	// keyed by participant_id and replaced on re-runs.
	//
	// Returns the number of participants imported.
	ImportParticipants(ctx context.Context, header []string, rows [][]string) (int, error)

	// InsertReadings appends one source file's rows to the sensor table
	// in a single transaction. Rows already present under the dedup key
	// (participant, session, source file, row index) are ignored.
	//
	// Returns:
	//   - inserted: Number of rows written
	//   - ignored: Number of duplicate rows suppressed
	InsertReadings(ctx context.Context, batch ReadingBatch) (inserted, ignored int64, err error)

	// Tables lists the catalog tables with their row counts, ordered by
	// name. Internal SQLite tables are excluded.
	Tables(ctx context.Context) ([]TableInfo, error)

	// TableRows reads rows from a table, optionally filtered and
	// paginated. Returns ErrTableNotFound for an unknown table.
	TableRows(ctx context.Context, table string, options ...QueryOption) (*ResultSet, error)

	// Participants returns all participant records ordered by identifier.
	Participants(ctx context.Context) ([]Participant, error)

	// Dictionary returns all data dictionary entries ordered by sensor name.
	Dictionary(ctx context.Context) ([]DictionaryEntry, error)

	// Series extracts (timestamp, value) pairs of one numeric column for
	// plotting, in timestamp order. Returns ErrTableNotFound for an
	// unknown table.
	Series(ctx context.Context, table, column string, options ...QueryOption) ([]SeriesPoint, error)

	// SensorSummary groups a sensor table's row counts by participant and
	// session. Returns ErrTableNotFound for an unknown table.
	SensorSummary(ctx context.Context, table string) ([]ParticipantStat, error)

	// ParticipantOverview returns one participant's record together with
	// per-sensor, per-session record counts across every sensor table that
	// holds data for them. Returns ErrParticipantNotFound for an unknown
	// participant.
	ParticipantOverview(ctx context.Context, participantID string) (*ParticipantOverview, error)

	// Query runs an arbitrary read-only SQL statement against the catalog.
	// Write statements fail on the read-only connection.
	Query(ctx context.Context, query string, args ...any) (*ResultSet, error)

	// Close releases all database connections. Safe to call multiple times.
	Close() error
}

// QueryOption narrows a catalog read.
type QueryOption func(*queryParams)

type queryParams struct {
	participantID *string
	sessionID     *int64
	limit         int
	offset        int
}

// WithParticipant restricts results to one participant.
func WithParticipant(id string) QueryOption {
	return func(p *queryParams) {
		p.participantID = &id
	}
}

// WithSession restricts results to one session.
func WithSession(id int64) QueryOption {
	return func(p *queryParams) {
		p.sessionID = &id
	}
}

// WithLimit caps the number of returned rows.
func WithLimit(n int) QueryOption {
	return func(p *queryParams) {
		p.limit = n
	}
}

// WithOffset skips the first n rows, for pagination.
func WithOffset(n int) QueryOption {
	return func(p *queryParams) {
		p.offset = n
	}
}
