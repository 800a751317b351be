package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naluwei/fatigueset-catalog/internal/catalog"
	"github.com/naluwei/fatigueset-catalog/internal/sensor"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/empatica"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/esense"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/zephyr"
)

func testRegistry() *sensor.Registry {
	return sensor.NewRegistry(esense.New(), zephyr.New(), empatica.New())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestStore(t *testing.T) catalog.Store {
	t.Helper()
	store := catalog.NewSqliteStore(filepath.Join(t.TempDir(), "catalog.db"))
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return store
}

func tableCount(t *testing.T, store catalog.Store, name string) int64 {
	t.Helper()
	tables, err := store.Tables(context.Background())
	require.NoError(t, err)
	for _, table := range tables {
		if table.Name == name {
			return table.RowCount
		}
	}
	return -1
}

func TestRunMissingRoot(t *testing.T) {
	store := newTestStore(t)
	e := New(filepath.Join(t.TempDir(), "nope"), store, testRegistry())

	_, err := e.Run(context.Background())
	assert.Error(t, err)
}

func TestRunSingleParticipant(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "metadata.csv"),
		"participant_id,low_session,medium_session,high_session\nparticipant_01,1,2,3\n")
	writeFile(t, filepath.Join(root, "participant_01", "ear_acc_left.csv"),
		"1.0,0.1,0.2,0.3\n2.0,0.4,0.5,0.6\n3.0,0.7,0.8,0.9\n")
	writeFile(t, filepath.Join(root, "participant_01", "chest_raw_ecg.csv"),
		"1.0,512\n2.0,498\n")
	writeFile(t, filepath.Join(root, "participant_01", "notes.txt"),
		"free-form notes, not a sensor export\n")

	store := newTestStore(t)
	summary, err := New(root, store, testRegistry()).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Participants)
	assert.Equal(t, 2, summary.FilesLoaded)
	assert.Equal(t, 0, summary.FilesFailed)
	assert.EqualValues(t, 5, summary.RowsInserted)
	assert.EqualValues(t, 0, summary.RowsIgnored)

	assert.EqualValues(t, 3, tableCount(t, store, "ear_acc_left"))
	assert.EqualValues(t, 2, tableCount(t, store, "chest_raw_ecg"))
	assert.EqualValues(t, int64(-1), tableCount(t, store, "ear_acc_right"),
		"tables are only created for sensors that produced data")

	participants, err := store.Participants(ctx)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "participant_01", participants[0].ID)

	result, err := store.TableRows(ctx, "ear_acc_left")
	require.NoError(t, err)
	for _, row := range result.Rows {
		assert.Equal(t, "participant_01", row[5])
		assert.EqualValues(t, 1, row[6])
		assert.Equal(t, "participant_01/ear_acc_left.csv", row[7])
	}
}

func TestRunSessionFolders(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "participant_01", "1", "wrist_hr.csv"),
		"1.0,72\n2.0,74\n")
	writeFile(t, filepath.Join(root, "participant_01", "2", "wrist_hr.csv"),
		"1.0,68\n")
	writeFile(t, filepath.Join(root, "participant_01", "baseline", "wrist_hr.csv"),
		"1.0,60\n")

	store := newTestStore(t)
	summary, err := New(root, store, testRegistry()).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesLoaded, "non-numeric subfolders are not sessions")
	assert.EqualValues(t, 3, summary.RowsInserted)

	stats, err := store.SensorSummary(ctx, "wrist_hr")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.EqualValues(t, 1, stats[0].SessionID)
	assert.EqualValues(t, 2, stats[0].RecordCount)
	assert.EqualValues(t, 2, stats[1].SessionID)
	assert.EqualValues(t, 1, stats[1].RecordCount)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "participant_01", "wrist_hr.csv"),
		"1.0,72\n2.0,74\n")

	store := newTestStore(t)
	registry := testRegistry()

	first, err := New(root, store, registry).Run(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, first.RowsInserted)

	second, err := New(root, store, registry).Run(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, second.RowsInserted, "re-running must not duplicate rows")
	assert.EqualValues(t, 2, second.RowsIgnored)

	assert.EqualValues(t, 2, tableCount(t, store, "wrist_hr"))

	participants, err := store.Participants(ctx)
	require.NoError(t, err)
	require.Len(t, participants, 1)
}

func TestRunMalformedFileDoesNotBlockSiblings(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	// Matched by name but not a real workbook.
	writeFile(t, filepath.Join(root, "participant_01", "wrist_eda.xlsx"),
		"this is not a workbook")
	writeFile(t, filepath.Join(root, "participant_01", "wrist_hr.csv"),
		"1.0,72\n")

	store := newTestStore(t)
	summary, err := New(root, store, testRegistry()).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesLoaded)
	assert.Equal(t, 1, summary.FilesFailed)
	assert.EqualValues(t, 1, tableCount(t, store, "wrist_hr"))
	assert.EqualValues(t, int64(-1), tableCount(t, store, "wrist_eda"))
}

func TestRunWithoutMetadata(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "participant_01", "wrist_hr.csv"), "1.0,72\n")

	store := newTestStore(t)
	summary, err := New(root, store, testRegistry()).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Participants)
	assert.Equal(t, 1, summary.FilesLoaded)

	// The participant row still exists, with no session metadata.
	participants, err := store.Participants(ctx)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Nil(t, participants[0].LowSession)
}

func TestRunSeedsDictionary(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "participant_01"), 0o755))

	store := newTestStore(t)
	registry := testRegistry()
	_, err := New(root, store, registry).Run(ctx)
	require.NoError(t, err)

	entries, err := store.Dictionary(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, len(registry.Definitions()))
}
