package analytics

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	deals := Enrich([]Deal{
		{Date: date(2024, 1, 10), Manager: "Ivanov", Client: "Acme", Product: "CRM",
			StageLabel: "Переговоры", PlanAmount: 100000},
	}, DefaultOpenProbability)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, deals); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("re-reading export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want header + 1 row", len(records))
	}
	if len(records[0]) != len(exportHeader) {
		t.Errorf("header width = %d, want %d", len(records[0]), len(exportHeader))
	}

	row := records[1]
	if row[0] != "2024-01-10" {
		t.Errorf("date = %q, want ISO 2024-01-10", row[0])
	}
	if row[7] != "open" {
		t.Errorf("status = %q, want open", row[7])
	}
	if row[12] != "65000" {
		t.Errorf("weighted forecast = %q, want 65000", row[12])
	}
}

func TestWriteCSVEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV over empty set: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("empty export should contain only the header, got %d lines", len(lines))
	}
}
