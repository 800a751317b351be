package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/naluwei/fatigueset-catalog/internal/sensor"
)

// SqliteStore handles catalog database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a catalog store backed by a SQLite database file.
// Connections are opened lazily: the write connection initializes the
// static schema, the read connection opens the file read-only.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) SeedDictionary(ctx context.Context, defs []sensor.Definition) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, upsertDictionarySQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for _, def := range defs {
		_, err = stmt.ExecContext(ctx,
			def.Name,
			def.Description,
			def.Units,
			def.SamplingRate,
			def.SensorType,
			strings.Join(def.ColumnNames(), ","),
		)
		if err != nil {
			return fmt.Errorf("seeding dictionary entry %q: %w", def.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return
}

func (s *SqliteStore) EnsureSensorTable(ctx context.Context, def sensor.Definition) error {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	if _, err = db.ExecContext(ctx, createSensorTableSQL(def)); err != nil {
		return fmt.Errorf("creating table %q: %w", def.Name, err)
	}
	if _, err = db.ExecContext(ctx, createSensorIndexSQL(def)); err != nil {
		return fmt.Errorf("creating index for %q: %w", def.Name, err)
	}
	return nil
}

func (s *SqliteStore) EnsureParticipant(ctx context.Context, participantID string) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, insertParticipantSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if _, err = stmt.ExecContext(ctx, participantID); err != nil {
		return fmt.Errorf("inserting participant: %w", err)
	}
	return
}

func (s *SqliteStore) ImportParticipants(ctx context.Context, header []string, rows [][]string) (count int, err error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	idIdx, ok := idx["participant_id"]
	if !ok {
		return 0, errors.New("metadata has no participant_id column")
	}

	cell := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	db, err := s.getWriteDB()
	if err != nil {
		return 0, fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, upsertParticipantSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for _, row := range rows {
		if idIdx >= len(row) || strings.TrimSpace(row[idIdx]) == "" {
			continue
		}

		_, err = stmt.ExecContext(ctx,
			strings.TrimSpace(row[idIdx]),
			parseNullInt(cell(row, "low_session")),
			parseNullInt(cell(row, "medium_session")),
			parseNullInt(cell(row, "high_session")),
		)
		if err != nil {
			return 0, fmt.Errorf("importing participant: %w", err)
		}
		count++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return count, nil
}

func (s *SqliteStore) InsertReadings(ctx context.Context, batch ReadingBatch) (inserted, ignored int64, err error) {
	if len(batch.Rows) == 0 {
		return 0, 0, nil
	}

	db, err := s.getWriteDB()
	if err != nil {
		return 0, 0, fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, insertReadingSQL(batch.Definition))
	if err != nil {
		return 0, 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for i, row := range batch.Rows {
		values := readingValues(batch.Definition, row)
		values = append(values, batch.ParticipantID, batch.SessionID, batch.SourceFile, int64(i))

		result, execErr := stmt.ExecContext(ctx, values...)
		if execErr != nil {
			err = fmt.Errorf("inserting row %d: %w", i, execErr)
			return 0, 0, err
		}

		affected, execErr := result.RowsAffected()
		if execErr != nil {
			err = fmt.Errorf("counting affected rows: %w", execErr)
			return 0, 0, err
		}
		if affected == 0 {
			ignored++
		} else {
			inserted += affected
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing transaction: %w", err)
	}
	return inserted, ignored, nil
}

// Close closes the database connections
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
