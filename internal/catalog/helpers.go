package catalog

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/naluwei/fatigueset-catalog/internal/sensor"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && *err == nil && cErr != sql.ErrTxDone {
		*err = cErr
	}
}

// columnValue coerces a source cell to the column's storage kind. Values
// that do not parse are stored as their source string; empty cells become
// NULL. This is the only coercion applied between file and table.
func columnValue(cell string, kind sensor.Kind) any {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}

	switch kind {
	case sensor.KindInteger:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}

	case sensor.KindReal:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return s
}

// readingValues maps one source row to bind values in definition column
// order. Short rows are padded with NULL, long rows truncated.
func readingValues(def sensor.Definition, cells []string) []any {
	values := make([]any, len(def.Columns))
	for i, col := range def.Columns {
		if i < len(cells) {
			values[i] = columnValue(cells[i], col.Kind)
		}
	}
	return values
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

// parseNullInt converts a metadata cell to a nullable session number.
func parseNullInt(s string) sql.NullInt64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullInt64{}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
