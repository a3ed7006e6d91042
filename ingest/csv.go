// Package ingest is the ingestion boundary: it turns uploaded tabular text
// into the raw row table the analytics engine consumes. It performs no
// normalization itself; column validation and cell coercion belong to
// analytics.Normalize.
package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"salesboard/analytics"
)

// ParseCSV reads delimited text into a raw row table. The delimiter is
// sniffed from the header line (comma, semicolon or tab), a UTF-8 BOM is
// stripped, header names are snake_cased ("Deal Date" -> "deal_date") and
// malformed rows are skipped rather than failing the upload.
func ParseCSV(r io.Reader) (analytics.RawTable, error) {
	br := bufio.NewReader(r)

	// Strip UTF-8 BOM that spreadsheet exports like to prepend.
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		br.Discard(3)
	}

	headerLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return analytics.RawTable{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if strings.TrimSpace(headerLine) == "" {
		return analytics.RawTable{}, fmt.Errorf("uploaded file is empty")
	}

	delim := sniffDelimiter(headerLine)

	reader := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	reader.Comma = delim
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return analytics.RawTable{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = toSnakeCase(strings.TrimSpace(h))
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		rows = append(rows, row)
	}

	return analytics.RawTable{Columns: columns, Rows: rows}, nil
}

// sniffDelimiter picks the candidate separator that appears most often in
// the header line. Comma wins ties.
func sniffDelimiter(header string) rune {
	best := ','
	bestCount := strings.Count(header, ",")

	for _, candidate := range []rune{';', '\t'} {
		if n := strings.Count(header, string(candidate)); n > bestCount {
			best = candidate
			bestCount = n
		}
	}
	return best
}

// toSnakeCase converts "Deal Date" -> "deal_date".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
