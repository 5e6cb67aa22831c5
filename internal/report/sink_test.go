package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rentscrape/internal/domain"
	"rentscrape/internal/registry"
)

func TestTextSinkListingLine(t *testing.T) {
	var buf bytes.Buffer
	s := NewTextSink(&buf)
	if err := s.Listing(domain.Listing{Unit: "104", Rent: 2000, Size: 800, Beds: 1}); err != nil {
		t.Fatalf("Listing: %v", err)
	}
	want := "Unit 104: rent=2000 size=800 beds=1 per_sq_ft=2.5\n"
	if buf.String() != want {
		t.Errorf("line: got %q, want %q", buf.String(), want)
	}
}

func TestCSVRowsPerBuilding(t *testing.T) {
	buildings := []registry.Building{
		{Name: "One", Source: &fakeSource{listings: []domain.Listing{
			{Unit: "101", Rent: 2000, Size: 900, Beds: 1},
			{Unit: "102", Rent: 2100, Size: 900, Beds: 2},
			{Unit: "103", Rent: 3500, Size: 1200, Beds: 3},
		}}},
		{Name: "Two", Source: &fakeSource{listings: []domain.Listing{
			{Unit: "201", Rent: 2400, Size: 1100, Beds: 2},
		}}},
	}

	var buf bytes.Buffer
	sink := NewCSVSink(&buf)
	fixed := time.Unix(1700000000, 0)
	sink.now = func() time.Time { return fixed }

	r := &Runner{
		Filter: Filter{MaxBeds: intPtr(2)},
		Sink:   sink,
	}
	if err := r.Run(context.Background(), buildings); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	// Header plus the three listings surviving the bed filter.
	if len(rows) != 4 {
		t.Fatalf("rows: got %d, want 4\n%v", len(rows), rows)
	}
	if strings.Join(rows[0], ",") != "timestamp,bldg,unit,rent,size,beds" {
		t.Errorf("header: got %v", rows[0])
	}
	for _, row := range rows[1:] {
		if row[0] != "1700000000" {
			t.Errorf("timestamp: got %q", row[0])
		}
		if row[2] == "103" {
			t.Errorf("unit 103 is outside the bed range: %v", row)
		}
		if strings.HasPrefix(row[1], "Size") || strings.HasPrefix(row[2], "Size") {
			t.Errorf("aggregate rows must never appear in CSV mode: %v", row)
		}
	}
	var oneRows, twoRows int
	for _, row := range rows[1:] {
		switch row[1] {
		case "One":
			oneRows++
		case "Two":
			twoRows++
		}
	}
	if oneRows != 2 || twoRows != 1 {
		t.Errorf("per-building row counts: One=%d Two=%d", oneRows, twoRows)
	}
}

func TestCSVFileSinkAppendsWithoutDuplicateHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rents.csv")

	write := func(unit string) {
		t.Helper()
		sink, err := NewCSVFileSink(path)
		if err != nil {
			t.Fatalf("NewCSVFileSink: %v", err)
		}
		sink.now = func() time.Time { return time.Unix(1700000000, 0) }
		if err := sink.BeginBuilding("One"); err != nil {
			t.Fatalf("BeginBuilding: %v", err)
		}
		if err := sink.Listing(domain.Listing{Unit: unit, Rent: 2000, Size: 800, Beds: 1}); err != nil {
			t.Fatalf("Listing: %v", err)
		}
		if err := sink.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}
	}
	write("101")
	write("102")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines: got %d\n%s", len(lines), b)
	}
	if !strings.HasPrefix(lines[0], "timestamp,") {
		t.Errorf("first line should be the header: %q", lines[0])
	}
	if strings.HasPrefix(lines[2], "timestamp,") {
		t.Errorf("second run must not repeat the header: %q", lines[2])
	}
}
