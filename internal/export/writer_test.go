package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"pengeluaran/internal/core"
)

func sample() []core.Transaction {
	return []core.Transaction{
		{
			ID:          "a",
			Kind:        core.Expense,
			Amount:      15000.5,
			Category:    core.ParseCategory("Kopi"),
			Description: "latte; oat",
			CreatedAt:   time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC).UnixMilli(),
			UpdatedAt:   time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC).UnixMilli(),
		},
		{
			ID:        "b",
			Kind:      core.Income,
			Amount:    5000000,
			Category:  core.ParseCategory("salary"),
			CreatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		},
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []Format
		wantErr bool
	}{
		{"csv", []Format{CSV}, false},
		{" CSV, xlsx ,csv", []Format{CSV, XLSX}, false},
		{"", nil, true},
		{"pdf", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormats(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || len(got) != len(tt.want) {
			t.Fatalf("ParseFormats(%q) = %v, %v", tt.in, got, err)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "idr", core.NewDateFormatter(time.UTC))
	path := filepath.Join(dir, "out.csv")
	if err := w.WriteCSV(path, sample()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatalf("missing BOM")
	}

	r := csv.NewReader(bytes.NewReader(data[3:]))
	r.Comma = ';'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records", len(records))
	}
	first := records[1]
	if first[0] != "a" || first[1] != "16 Okt 2026" || first[3] != "Kopi" || first[4] != "latte; oat" {
		t.Fatalf("unexpected record %v", first)
	}
	if first[5] != "15000.5" || first[6] != "IDR" {
		t.Fatalf("amount columns = %v", first[5:7])
	}
	if records[2][8] != "" {
		t.Fatalf("never-updated row should have empty updated_at, got %q", records[2][8])
	}
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, "USD", core.NewDateFormatter(nil))
	path := filepath.Join(dir, "out.xlsx")
	if err := w.WriteXLSX(path, sample()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0][0] != "id" || rows[2][0] != "b" || rows[2][5] != "5000000" || rows[2][6] != "USD" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	w := New(dir, "IDR", core.NewDateFormatter(nil))

	paths, err := w.WriteAll(context.Background(), "ledger-30d", []Format{CSV, XLSX}, sample())
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "ledger-30d.csv" || filepath.Base(paths[1]) != "ledger-30d.xlsx" {
		t.Fatalf("paths = %v", paths)
	}
	for _, p := range paths {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Fatalf("%s not written: %v", p, err)
		}
	}
}

func TestWriteAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := New(t.TempDir(), "IDR", core.NewDateFormatter(nil))
	if _, err := w.WriteAll(ctx, "x", []Format{CSV}, sample()); err == nil {
		t.Fatal("expected context error")
	}
}
