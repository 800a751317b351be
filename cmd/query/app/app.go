package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/naluwei/fatigueset-catalog/internal/catalog"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := catalog.NewSqliteStore(config.DBPath)
	defer store.Close()

	var result *catalog.ResultSet
	var err error
	if config.Table != "" {
		result, err = store.TableRows(ctx, config.Table, catalog.WithLimit(config.Limit))
	} else {
		result, err = store.Query(ctx, config.SQL)
	}
	if err != nil {
		return err
	}

	return printResult(os.Stdout, result)
}

func printResult(w io.Writer, result *catalog.ResultSet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(result.Columns, "\t"))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s rows\n", humanize.Comma(int64(len(result.Rows))))
	return err
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
