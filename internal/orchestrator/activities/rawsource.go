package activities

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// rawEntry is one row of a scraped-text CSV — the `source` input to
// extract_one (spec §4.7), distinct from internal/store.LoadCSV's
// already-structured ingestion format. Grounded on
// original_source/src/recipes/utils/csv_parser.py's CSVParser.get_entry and
// workflows/activities.py's "comment" falling back to "text" field lookup.
type rawEntry struct {
	Title        string
	Text         string
	Author       string
	SourceURL    string
	SourcePostID string
	SourceScore  *int
	NumComments  int
}

// readRawEntry streams csvPath and returns the entryIndex'th data row
// (1-based, matching the original CSVParser's entry_number convention),
// without loading the whole file into memory — the original's design
// rationale was large (multi-GB) scrape dumps.
func readRawEntry(csvPath string, entryIndex int) (rawEntry, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return rawEntry{}, fmt.Errorf("activities: open %s: %w", csvPath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return rawEntry{}, fmt.Errorf("activities: read header of %s: %w", csvPath, err)
	}
	col := columnIndex(header)

	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rawEntry{}, &EntryNotFoundError{Source: csvPath, EntryIndex: entryIndex, Reason: "entry not found"}
		}
		if err != nil {
			return rawEntry{}, fmt.Errorf("activities: read row of %s: %w", csvPath, err)
		}
		row++
		if row != entryIndex {
			continue
		}
		return recordToEntry(record, col), nil
	}
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func field(record []string, col map[string]int, names ...string) string {
	for _, name := range names {
		i, ok := col[name]
		if !ok || i >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[i]); v != "" {
			return v
		}
	}
	return ""
}

func recordToEntry(record []string, col map[string]int) rawEntry {
	e := rawEntry{
		Title:        field(record, col, "title"),
		Text:         field(record, col, "comment", "text"),
		Author:       field(record, col, "author", "source_author"),
		SourceURL:    field(record, col, "source_url", "url"),
		SourcePostID: field(record, col, "source_post_id", "post_id", "id"),
	}
	if v := field(record, col, "source_score", "score"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			e.SourceScore = &n
		}
	}
	if v := field(record, col, "num_comments"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			e.NumComments = n
		}
	}
	return e
}
