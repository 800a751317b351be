package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/naluwei/fatigueset-catalog/internal/sensor"
)

//go:embed schema.sql
var schemaSQL string

const (
	insertParticipantSQL = `
INSERT OR IGNORE INTO participants (participant_id)
VALUES (?)`

	upsertParticipantSQL = `
INSERT OR REPLACE INTO participants (
                      participant_id,
                      low_session,
                      medium_session,
                      high_session)
VALUES (?, ?, ?, ?)`

	selectParticipantSQL = `
SELECT
    participant_id,
    low_session,
    medium_session,
    high_session,
    created_at
FROM participants
WHERE participant_id = ?`

	selectParticipantsSQL = `
SELECT
    participant_id,
    low_session,
    medium_session,
    high_session,
    created_at
FROM participants
ORDER BY participant_id`

	upsertDictionarySQL = `
INSERT OR REPLACE INTO data_dictionary (
                      sensor_name,
                      description,
                      units,
                      sampling_rate,
                      sensor_type,
                      columns)
VALUES (?, ?, ?, ?, ?, ?)`

	selectDictionarySQL = `
SELECT
    sensor_name,
    description,
    units,
    sampling_rate,
    sensor_type,
    columns,
    created_at
FROM data_dictionary
ORDER BY sensor_name`

	selectTablesSQL = `
SELECT name
FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`

	selectTableExistsSQL = `
SELECT COUNT(*)
FROM sqlite_master
WHERE type = 'table' AND name = ?`
)

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func columnType(kind sensor.Kind) string {
	switch kind {
	case sensor.KindInteger:
		return "INTEGER"
	case sensor.KindText:
		return "TEXT"
	default:
		return "REAL"
	}
}

// createSensorTableSQL builds the DDL for one sensor table: the original
// file columns in file order, followed by the provenance columns.
func createSensorTableSQL(def sensor.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdent(def.Name))
	b.WriteString("    id INTEGER PRIMARY KEY AUTOINCREMENT,\n")
	for _, col := range def.Columns {
		fmt.Fprintf(&b, "    %s %s,\n", quoteIdent(col.Name), columnType(col.Kind))
	}
	b.WriteString("    participant_id TEXT,\n")
	b.WriteString("    session_id INTEGER,\n")
	b.WriteString("    source_file TEXT,\n")
	b.WriteString("    row_idx INTEGER,\n")
	b.WriteString("    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,\n")
	b.WriteString("    FOREIGN KEY (participant_id) REFERENCES participants (participant_id)\n")
	b.WriteString(")")
	return b.String()
}

// createSensorIndexSQL builds the unique index implementing the dedup key:
// one physical row per (participant, session, source file, row index).
func createSensorIndexSQL(def sensor.Definition) string {
	return fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (participant_id, session_id, source_file, row_idx)",
		quoteIdent("ux_"+def.Name+"_provenance"), quoteIdent(def.Name))
}

// insertReadingSQL builds the per-file insert statement. INSERT OR IGNORE
// pairs with the provenance index so re-extraction runs are no-ops.
func insertReadingSQL(def sensor.Definition) string {
	cols := make([]string, 0, len(def.Columns)+4)
	for _, col := range def.Columns {
		cols = append(cols, quoteIdent(col.Name))
	}
	cols = append(cols, "participant_id", "session_id", "source_file", "row_idx")

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s)\nVALUES (%s)",
		quoteIdent(def.Name), strings.Join(cols, ", "), placeholders)
}
