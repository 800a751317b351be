// Package tabular reads sensor export files into row sets. Cells are kept
// as source strings; storage kind coercion happens at the catalog boundary.
package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one record of an export file, in file order.
type Row []string

// ReadRows loads an export file, dispatching on the file extension.
// A leading header row is detected and dropped; row order is preserved.
func ReadRows(path string) ([]Row, error) {
	var rows []Row
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)

	case ".txt":
		rows, err = readDelimited(path)

	case ".xlsx":
		rows, err = readWorkbook(path)

	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}

	if err != nil {
		return nil, err
	}
	return trimHeader(rows), nil
}

func readCSV(path string) (rows []Row, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	rows = make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row(rec)
	}
	return rows, nil
}

// readDelimited handles plain text exports: tab separated when a tab is
// present on the line, otherwise split on runs of whitespace.
func readDelimited(path string) (rows []Row, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		var cells []string
		if strings.ContainsRune(line, '\t') {
			cells = strings.Split(line, "\t")
		} else {
			cells = strings.Fields(line)
		}
		rows = append(rows, Row(cells))
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return rows, nil
}

func readWorkbook(path string) (rows []Row, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	rows = make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row(rec)
	}
	return rows, nil
}

// trimHeader drops a leading header row. Export data rows always start
// with a numeric timestamp, so a non-numeric first cell marks a header.
func trimHeader(rows []Row) []Row {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return rows
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][0]), 64); err != nil {
		return rows[1:]
	}
	return rows
}
