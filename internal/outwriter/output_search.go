package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// similarityPrecision keeps cosine values readable regardless of the
// configured score precision.
const similarityPrecision = 3

// WriteSearchResults outputs ranked search hits, dispatching based on the output format configured.
func WriteSearchResults(results []schema.SearchResult, query string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForSearch(w, query, results)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForSearch(csvWriter, results)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeSearchTable(results, cfg, w); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Found %d matching documents for %q\n", len(results), query)
			return err
		}, "Wrote table")
	}
	return nil
}

// WriteSimilarWork outputs an engineer's own and related work for a query.
func WriteSimilarWork(work *schema.SimilarWork, query, author string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"query":  query,
				"author": author,
				"own":    work.Own,
				"others": work.Others,
			})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForSimilar(csvWriter, work)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSimilarText(work, query, author, cfg, w)
		}, "Wrote table")
	}
	return nil
}

// writeSearchTable generates and writes the human-readable hit list.
func writeSearchTable(results []schema.SearchResult, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Title", "Author", "Source", "Kind", "Similarity"}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxTitle := getMaxTableTitleWidth(cfg)
	var data [][]string
	for i, r := range results {
		doc := r.Document
		row := []string{
			strconv.Itoa(i + 1), // Rank
			contract.TruncateText(doc.Title, maxTitle), // Title
			doc.Author,          // Author
			string(doc.Source),  // Source
			string(doc.Kind),    // Kind
			fmt.Sprintf("%.*f", similarityPrecision, r.Similarity), // Similarity
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeSimilarText writes the partitioned own/others sections.
func writeSimilarText(work *schema.SimilarWork, query, author string, cfg *contract.Config, writer io.Writer) error {
	if err := printSection(writer, cfg, fmt.Sprintf("Own work by %s", author)); err != nil {
		return err
	}
	if len(work.Own) == 0 {
		if _, err := fmt.Fprintln(writer, "  No matching documents"); err != nil {
			return err
		}
	} else if err := writeSearchTable(work.Own, cfg, writer); err != nil {
		return err
	}

	if err := printSection(writer, cfg, "Related work by others"); err != nil {
		return err
	}
	if len(work.Others) == 0 {
		if _, err := fmt.Fprintln(writer, "  No matching documents"); err != nil {
			return err
		}
	} else if err := writeSearchTable(work.Others, cfg, writer); err != nil {
		return err
	}

	_, err := fmt.Fprintf(writer, "\nFound %d own and %d related documents for %q\n", len(work.Own), len(work.Others), query)
	return err
}

// writeCSVResultsForSearch writes search hits in CSV format.
func writeCSVResultsForSearch(w *csv.Writer, results []schema.SearchResult) error {
	header := []string{
		"rank",
		"id",
		"title",
		"author",
		"source",
		"kind",
		"similarity",
		"url",
		"created_at",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, r := range results {
		if err := w.Write(searchCSVRow(i+1, r)); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVResultsForSimilar writes partitioned hits with a relation column.
func writeCSVResultsForSimilar(w *csv.Writer, work *schema.SimilarWork) error {
	header := []string{
		"relation",
		"rank",
		"id",
		"title",
		"author",
		"source",
		"kind",
		"similarity",
		"url",
		"created_at",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, r := range work.Own {
		if err := w.Write(append([]string{"own"}, searchCSVRow(i+1, r)...)); err != nil {
			return err
		}
	}
	for i, r := range work.Others {
		if err := w.Write(append([]string{"others"}, searchCSVRow(i+1, r)...)); err != nil {
			return err
		}
	}
	return nil
}

// searchCSVRow flattens one hit into CSV fields.
func searchCSVRow(rank int, r schema.SearchResult) []string {
	doc := r.Document
	return []string{
		strconv.Itoa(rank),
		doc.ID,
		doc.Title,
		doc.Author,
		string(doc.Source),
		string(doc.Kind),
		fmt.Sprintf("%.*f", similarityPrecision, r.Similarity),
		doc.URL,
		doc.CreatedAt.Format(contract.DateTimeFormat),
	}
}

// writeJSONResultsForSearch writes search hits in JSON format.
func writeJSONResultsForSearch(w io.Writer, query string, results []schema.SearchResult) error {
	type JSONSearchResult struct {
		Rank int `json:"rank"`
		schema.SearchResult
	}

	output := make([]JSONSearchResult, len(results))
	for i, r := range results {
		output[i] = JSONSearchResult{
			Rank:         i + 1,
			SearchResult: r,
		}
	}

	return writeJSON(w, map[string]any{
		"query":   query,
		"results": output,
	})
}
