package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadRowsCSV(t *testing.T) {
	path := writeFile(t, "ear_acc_left.csv", "1.0,0.1,0.2,0.3\n2.0,0.4,0.5,0.6\n")

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{"1.0", "0.1", "0.2", "0.3"}, rows[0])
	assert.Equal(t, Row{"2.0", "0.4", "0.5", "0.6"}, rows[1])
}

func TestReadRowsCSVHeader(t *testing.T) {
	path := writeFile(t, "wrist_hr.csv", "timestamp,hr\n1.0,72\n2.0,74\n")

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2, "header row must be dropped")
	assert.Equal(t, Row{"1.0", "72"}, rows[0])
}

func TestReadRowsTabDelimited(t *testing.T) {
	path := writeFile(t, "chest_rr_interval.txt", "1.0\t800\n2.0\t812\n")

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{"1.0", "800"}, rows[0])
}

func TestReadRowsWhitespaceDelimited(t *testing.T) {
	path := writeFile(t, "chest_rr_interval.txt", "1.0 800\n2.0   812\n\n")

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2, "blank lines must be skipped")
	assert.Equal(t, Row{"2.0", "812"}, rows[1])
}

func TestReadRowsWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrist_eda.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "timestamp"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "eda"))
	require.NoError(t, f.SetCellValue(sheet, "A2", 1.5))
	require.NoError(t, f.SetCellValue(sheet, "B2", 0.02))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1, "header row must be dropped")
	assert.Equal(t, "1.5", rows[0][0])
}

func TestReadRowsUnsupported(t *testing.T) {
	path := writeFile(t, "notes.json", "{}")

	_, err := ReadRows(path)
	assert.Error(t, err)
}

func TestReadRowsCorruptWorkbook(t *testing.T) {
	path := writeFile(t, "wrist_eda.xlsx", "this is not a workbook")

	_, err := ReadRows(path)
	assert.Error(t, err)
}
