package catalog

import (
	"time"

	"github.com/naluwei/fatigueset-catalog/internal/sensor"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/tabular"
)

// Participant is one row of the participants table. Session numbers come
// from the dataset metadata and may be absent for participants that were
// created from folder names alone.
type Participant struct {
	ID            string
	LowSession    *int64
	MediumSession *int64
	HighSession   *int64
	CreatedAt     time.Time
}

// DictionaryEntry maps a sensor table to its human-readable annotation.
type DictionaryEntry struct {
	SensorName   string
	Description  string
	Units        string
	SamplingRate string
	SensorType   string
	Columns      []string
	CreatedAt    time.Time
}

// TableInfo is a catalog table together with its row count.
type TableInfo struct {
	Name     string
	RowCount int64
}

// ResultSet is a generic query result: column names plus rows of values
// as returned by the driver.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// ReadingBatch is one source file's worth of sensor readings, the unit of
// insertion. A failure mid-batch rolls back that file only.
type ReadingBatch struct {
	Definition    sensor.Definition
	ParticipantID string
	SessionID     int64

	// SourceFile is the file path relative to the data root; part of the
	// dedup key.
	SourceFile string

	Rows []tabular.Row
}

// ParticipantStat is a per-participant, per-session row count of one
// sensor table.
type ParticipantStat struct {
	ParticipantID string
	SessionID     int64
	RecordCount   int64
}

// SessionStat is a per-session row count.
type SessionStat struct {
	SessionID   int64
	RecordCount int64
}

// SensorOverview is one sensor table's per-session record counts for a
// single participant. Sensors with no data for the participant are omitted.
type SensorOverview struct {
	SensorName  string
	Description string
	Sessions    []SessionStat
}

// ParticipantOverview is one participant's record together with their
// per-sensor data counts.
type ParticipantOverview struct {
	Participant Participant
	Sensors     []SensorOverview
}

// SeriesPoint is one (timestamp, value) measurement used for plotting.
type SeriesPoint struct {
	Timestamp float64
	Value     float64
}
