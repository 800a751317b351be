package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrColumnNotFound is returned when a series read refers to a column the
// table does not have.
var ErrColumnNotFound = errors.New("column not found")

// ErrParticipantNotFound is returned when an overview read refers to a
// participant the catalog does not have.
var ErrParticipantNotFound = errors.New("participant not found")

func (s *SqliteStore) Tables(ctx context.Context) (tables []TableInfo, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer closeWithError(rows, &err)

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tables: %w", err)
	}

	for _, name := range names {
		var count int64
		if err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(name)).Scan(&count); err != nil {
			return nil, fmt.Errorf("counting rows of %q: %w", name, err)
		}
		tables = append(tables, TableInfo{Name: name, RowCount: count})
	}
	return tables, nil
}

func (s *SqliteStore) tableColumns(ctx context.Context, db *sql.DB, table string) (columns []string, err error) {
	exists, err := s.tableExists(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("describing table %q: %w", table, err)
	}
	defer closeWithError(rows, &err)

	if columns, err = rows.Columns(); err != nil {
		return nil, fmt.Errorf("reading columns of %q: %w", table, err)
	}
	return columns, rows.Err()
}

func (s *SqliteStore) tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var count int64
	if err := db.QueryRowContext(ctx, selectTableExistsSQL, table).Scan(&count); err != nil {
		return false, fmt.Errorf("checking table %q: %w", table, err)
	}
	return count > 0, nil
}

func (s *SqliteStore) TableRows(ctx context.Context, table string, options ...QueryOption) (*ResultSet, error) {
	var params queryParams
	for _, option := range options {
		option(&params)
	}

	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	if _, err = s.tableColumns(ctx, db, table); err != nil {
		return nil, err
	}

	query, args := buildTableQuery(table, "*", &params)
	return s.runQuery(ctx, db, query, args...)
}

func (s *SqliteStore) Participants(ctx context.Context) (participants []Participant, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectParticipantsSQL)
	if err != nil {
		return nil, fmt.Errorf("querying participants: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var p Participant
		var low, medium, high sql.NullInt64
		var createdAt sql.NullTime
		if err = rows.Scan(&p.ID, &low, &medium, &high, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		p.LowSession = intPtr(low)
		p.MediumSession = intPtr(medium)
		p.HighSession = intPtr(high)
		if createdAt.Valid {
			p.CreatedAt = createdAt.Time
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (s *SqliteStore) Dictionary(ctx context.Context) (entries []DictionaryEntry, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectDictionarySQL)
	if err != nil {
		return nil, fmt.Errorf("querying dictionary: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var e DictionaryEntry
		var columns string
		var createdAt sql.NullTime
		if err = rows.Scan(&e.SensorName, &e.Description, &e.Units, &e.SamplingRate, &e.SensorType, &columns, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning dictionary entry: %w", err)
		}
		if columns != "" {
			e.Columns = strings.Split(columns, ",")
		}
		if createdAt.Valid {
			e.CreatedAt = createdAt.Time
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SqliteStore) Series(ctx context.Context, table, column string, options ...QueryOption) (points []SeriesPoint, err error) {
	var params queryParams
	for _, option := range options {
		option(&params)
	}

	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	columns, err := s.tableColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}

	hasColumn := func(name string) bool {
		for _, c := range columns {
			if c == name {
				return true
			}
		}
		return false
	}
	if !hasColumn(column) || !hasColumn("timestamp") {
		return nil, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
	}

	var b strings.Builder
	var args []any
	fmt.Fprintf(&b, "SELECT timestamp, %s FROM %s WHERE timestamp IS NOT NULL AND %s IS NOT NULL",
		quoteIdent(column), quoteIdent(table), quoteIdent(column))
	appendFilters(&b, &args, &params)
	b.WriteString(" ORDER BY timestamp")
	appendWindow(&b, &args, &params)

	rows, err := db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying series: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var p SeriesPoint
		if err = rows.Scan(&p.Timestamp, &p.Value); err != nil {
			return nil, fmt.Errorf("scanning series point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *SqliteStore) SensorSummary(ctx context.Context, table string) (stats []ParticipantStat, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	if _, err = s.tableColumns(ctx, db, table); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
SELECT participant_id, session_id, COUNT(*)
FROM %s
GROUP BY participant_id, session_id
ORDER BY participant_id, session_id`, quoteIdent(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var stat ParticipantStat
		var participantID sql.NullString
		var sessionID sql.NullInt64
		if err = rows.Scan(&participantID, &sessionID, &stat.RecordCount); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		stat.ParticipantID = participantID.String
		stat.SessionID = sessionID.Int64
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func (s *SqliteStore) ParticipantOverview(ctx context.Context, participantID string) (*ParticipantOverview, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var p Participant
	var low, medium, high sql.NullInt64
	var createdAt sql.NullTime
	err = db.QueryRowContext(ctx, selectParticipantSQL, participantID).
		Scan(&p.ID, &low, &medium, &high, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrParticipantNotFound, participantID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying participant: %w", err)
	}
	p.LowSession = intPtr(low)
	p.MediumSession = intPtr(medium)
	p.HighSession = intPtr(high)
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}

	entries, err := s.Dictionary(ctx)
	if err != nil {
		return nil, err
	}

	overview := &ParticipantOverview{Participant: p}
	for _, e := range entries {
		exists, err := s.tableExists(ctx, db, e.SensorName)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}

		sessions, err := s.sessionStats(ctx, db, e.SensorName, participantID)
		if err != nil {
			return nil, err
		}
		if len(sessions) == 0 {
			continue
		}

		overview.Sensors = append(overview.Sensors, SensorOverview{
			SensorName:  e.SensorName,
			Description: e.Description,
			Sessions:    sessions,
		})
	}
	return overview, nil
}

func (s *SqliteStore) sessionStats(ctx context.Context, db *sql.DB, table, participantID string) (stats []SessionStat, err error) {
	query := fmt.Sprintf(`
SELECT session_id, COUNT(*)
FROM %s
WHERE participant_id = ?
GROUP BY session_id
ORDER BY session_id`, quoteIdent(table))

	rows, err := db.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, fmt.Errorf("querying session stats: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sessionID sql.NullInt64
		var stat SessionStat
		if err = rows.Scan(&sessionID, &stat.RecordCount); err != nil {
			return nil, fmt.Errorf("scanning session stat: %w", err)
		}
		stat.SessionID = sessionID.Int64
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func (s *SqliteStore) Query(ctx context.Context, query string, args ...any) (*ResultSet, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return s.runQuery(ctx, db, query, args...)
}

func (s *SqliteStore) runQuery(ctx context.Context, db *sql.DB, query string, args ...any) (result *ResultSet, err error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running query: %w", err)
	}
	defer closeWithError(rows, &err)

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	result = &ResultSet{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		scans := make([]any, len(columns))
		for i := range values {
			scans[i] = &values[i]
		}
		if err = rows.Scan(scans...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		for i, v := range values {
			switch t := v.(type) {
			case []byte:
				values[i] = string(t)
			case time.Time:
				values[i] = t.UTC()
			}
		}
		result.Rows = append(result.Rows, values)
	}
	return result, rows.Err()
}

func buildTableQuery(table, projection string, params *queryParams) (string, []any) {
	var b strings.Builder
	var args []any

	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE 1=1", projection, quoteIdent(table))
	appendFilters(&b, &args, params)
	b.WriteString(" ORDER BY rowid")
	appendWindow(&b, &args, params)
	return b.String(), args
}

func appendFilters(b *strings.Builder, args *[]any, params *queryParams) {
	if params.participantID != nil {
		b.WriteString(" AND participant_id = ?")
		*args = append(*args, *params.participantID)
	}
	if params.sessionID != nil {
		b.WriteString(" AND session_id = ?")
		*args = append(*args, *params.sessionID)
	}
}

func appendWindow(b *strings.Builder, args *[]any, params *queryParams) {
	if params.limit > 0 {
		b.WriteString(" LIMIT ?")
		*args = append(*args, params.limit)

		if params.offset > 0 {
			b.WriteString(" OFFSET ?")
			*args = append(*args, params.offset)
		}
	}
}
