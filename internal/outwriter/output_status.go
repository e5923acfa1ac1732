package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// WriteStoreStatus outputs persistence layer totals, dispatching based on the output format configured.
func WriteStoreStatus(status *schema.StoreStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForStatus(w, status)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatusText(status, w)
		}, "Wrote status")
	}
	return nil
}

// writeStatusText writes the human-readable store summary.
func writeStatusText(status *schema.StoreStatus, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "📦 Store backend: %s\n", status.Backend); err != nil {
		return err
	}
	lastRun := "never"
	if status.LastRunAt != nil {
		lastRun = status.LastRunAt.Format(contract.DateTimeFormat)
	}
	if _, err := fmt.Fprintf(writer, "Runs: %d (last: %s)\n", status.TotalRuns, lastRun); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Scores: %d\n", status.TotalScores); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Documents: %d\n", status.TotalDocuments); err != nil {
		return err
	}

	if len(status.TableSizes) == 0 {
		return nil
	}
	tables := make([]string, 0, len(status.TableSizes))
	for name := range status.TableSizes {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	for _, name := range tables {
		if _, err := fmt.Fprintf(writer, "  %s: %d rows\n", name, status.TableSizes[name]); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVResultsForStatus writes the store summary as a single CSV row.
func writeCSVResultsForStatus(w io.Writer, status *schema.StoreStatus) error {
	header := []string{
		"backend",
		"total_runs",
		"total_scores",
		"total_documents",
		"last_run_at",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		lastRun := ""
		if status.LastRunAt != nil {
			lastRun = status.LastRunAt.Format(contract.DateTimeFormat)
		}
		rec := []string{
			string(status.Backend),
			strconv.Itoa(status.TotalRuns),
			strconv.Itoa(status.TotalScores),
			strconv.Itoa(status.TotalDocuments),
			lastRun,
		}
		return cw.Write(rec)
	})
}
