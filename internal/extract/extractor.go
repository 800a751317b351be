// Package extract implements the folder-to-table extraction pipeline: it
// walks a data root of participant folders, routes export files through the
// sensor registry and appends parsed rows to the catalog store.
package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/naluwei/fatigueset-catalog/internal/catalog"
	"github.com/naluwei/fatigueset-catalog/internal/sensor"
	"github.com/naluwei/fatigueset-catalog/internal/sensor/tabular"
)

// metadataFile sits in the data root and carries participant session
// assignments.
const metadataFile = "metadata.csv"

// defaultSessionID is assigned to export files sitting directly in a
// participant folder, outside any numbered session subfolder.
const defaultSessionID = 1

// Summary reports what one extraction run did.
type Summary struct {
	Participants int
	FilesLoaded  int
	FilesFailed  int
	RowsInserted int64
	RowsIgnored  int64
}

// WithLogger sets the logger for the extractor
func WithLogger(logger *slog.Logger) func(*Extractor) {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// Extractor performs a single synchronous pass over the data root.
// File-level failures are logged and skipped; root- and store-level
// failures abort the run.
type Extractor struct {
	root     string
	store    catalog.Store
	registry *sensor.Registry
	logger   *slog.Logger
}

// New creates an Extractor over a data root, catalog store and sensor
// registry. The data root is the folder holding one subfolder per
// participant.
func New(root string, store catalog.Store, registry *sensor.Registry, options ...func(*Extractor)) *Extractor {
	e := Extractor{
		root:     root,
		store:    store,
		registry: registry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&e)
	}

	return &e
}

// Run executes the extraction pass and returns its summary.
func (e *Extractor) Run(ctx context.Context) (*Summary, error) {
	stat, err := os.Stat(e.root)
	if err != nil {
		return nil, fmt.Errorf("data root '%s': %w", e.root, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("data root '%s' is not a directory", e.root)
	}

	if err = e.store.SeedDictionary(ctx, e.registry.Definitions()); err != nil {
		return nil, fmt.Errorf("seeding data dictionary: %w", err)
	}

	var summary Summary
	if err = e.loadMetadata(ctx, &summary); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(e.root)
	if err != nil {
		return nil, fmt.Errorf("reading data root: %w", err)
	}

	tables := make(map[string]struct{})
	for _, entry := range entries {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}

		if err = e.processParticipant(ctx, entry.Name(), tables, &summary); err != nil {
			return nil, err
		}
	}

	return &summary, nil
}

// loadMetadata imports the optional metadata.csv from the data root.
// A missing file is not an error; an unreadable one is logged and skipped.
func (e *Extractor) loadMetadata(ctx context.Context, summary *Summary) error {
	path := filepath.Join(e.root, metadataFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			e.logger.Warn("metadata file not found", slog.String("path", path))
			return nil
		}
		return fmt.Errorf("metadata file '%s': %w", path, err)
	}

	header, rows, err := readMetadata(path)
	if err != nil {
		e.logger.Warn("skipping unreadable metadata file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil
	}

	count, err := e.store.ImportParticipants(ctx, header, rows)
	if err != nil {
		return fmt.Errorf("importing participants: %w", err)
	}

	summary.Participants += count
	e.logger.Info("loaded participant metadata", slog.Int("participants", count))
	return nil
}

func (e *Extractor) processParticipant(ctx context.Context, participantID string, tables map[string]struct{}, summary *Summary) error {
	if err := e.store.EnsureParticipant(ctx, participantID); err != nil {
		return fmt.Errorf("creating participant %s: %w", participantID, err)
	}

	dir := filepath.Join(e.root, participantID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		e.logger.Warn("skipping unreadable participant folder",
			slog.String("participant", participantID),
			slog.String("error", err.Error()))
		return nil
	}

	for _, entry := range entries {
		if err = ctx.Err(); err != nil {
			return err
		}

		if !entry.IsDir() {
			e.processFile(ctx, participantID, defaultSessionID, filepath.Join(dir, entry.Name()), tables, summary)
			continue
		}

		sessionID, err := strconv.ParseInt(entry.Name(), 10, 64)
		if err != nil {
			continue // not a session folder
		}

		sessionDir := filepath.Join(dir, entry.Name())
		files, err := os.ReadDir(sessionDir)
		if err != nil {
			e.logger.Warn("skipping unreadable session folder",
				slog.String("participant", participantID),
				slog.Int64("session", sessionID),
				slog.String("error", err.Error()))
			continue
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			e.processFile(ctx, participantID, sessionID, filepath.Join(sessionDir, file.Name()), tables, summary)
		}
	}

	return nil
}

// processFile parses one export file and appends its rows. Failures are
// logged warnings; sibling files are unaffected.
func (e *Extractor) processFile(ctx context.Context, participantID string, sessionID int64, path string, tables map[string]struct{}, summary *Summary) {
	dev, def, ok := e.registry.Match(filepath.Base(path))
	if !ok {
		return // unrecognized files are ignored
	}

	rel, err := filepath.Rel(e.root, path)
	if err != nil {
		rel = path
	}

	logger := e.logger.With(
		slog.String("file", rel),
		slog.String("device", dev.Device()),
		slog.String("sensor", def.Name),
	)

	rows, err := tabular.ReadRows(path)
	if err != nil {
		logger.Warn("skipping unreadable file", slog.String("error", err.Error()))
		summary.FilesFailed++
		return
	}

	if _, ok = tables[def.Name]; !ok {
		if err = e.store.EnsureSensorTable(ctx, def); err != nil {
			logger.Warn("skipping file, cannot create table", slog.String("error", err.Error()))
			summary.FilesFailed++
			return
		}
		tables[def.Name] = struct{}{}
	}

	inserted, ignored, err := e.store.InsertReadings(ctx, catalog.ReadingBatch{
		Definition:    def,
		ParticipantID: participantID,
		SessionID:     sessionID,
		SourceFile:    filepath.ToSlash(rel),
		Rows:          rows,
	})
	if err != nil {
		logger.Warn("skipping file, insert failed", slog.String("error", err.Error()))
		summary.FilesFailed++
		return
	}

	summary.FilesLoaded++
	summary.RowsInserted += inserted
	summary.RowsIgnored += ignored
	logger.Info("loaded file",
		slog.Int64("rows", inserted),
		slog.Int64("duplicates", ignored))
}

// readMetadata reads metadata.csv keeping its header row.
func readMetadata(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening metadata: %w", err)
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
		return nil, nil, fmt.Errorf("reading metadata: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("metadata is empty")
	}
	return records[0], records[1:], nil
}
