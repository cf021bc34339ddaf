// Package export writes transactions to CSV and XLSX files.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"pengeluaran/internal/core"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

const sheetName = "Transactions"

var headers = []string{"id", "date", "kind", "category", "description", "amount", "currency", "created_at", "updated_at"}

// ParseFormats reads a comma separated list such as "csv,xlsx".
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if f != CSV && f != XLSX {
			return nil, fmt.Errorf("unsupported export format %q", part)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no export format given")
	}
	return out, nil
}

// Writer handles export file writing
type Writer struct {
	outputDir string
	currency  string
	dates     core.DateFormatter
}

// New creates a Writer placing files in outputDir. Amounts are labelled
// with currency and dates rendered with dates.
func New(outputDir, currency string, dates core.DateFormatter) *Writer {
	return &Writer{
		outputDir: outputDir,
		currency:  core.NormalizeCurrencyCode(currency),
		dates:     dates,
	}
}

// WriteAll writes one file per format, concurrently, named base.<format>.
// It returns the written paths in the order of formats.
func (w *Writer) WriteAll(ctx context.Context, base string, formats []Format, txs []core.Transaction) ([]string, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		f := f
		path :=filepath.Join(w.outputDir, base+"."+string(f))
		paths[i] = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch f {
			case CSV:
				return w.WriteCSV(path, txs)
			case XLSX:
				return w.WriteXLSX(path, txs)
			default:
				return fmt.Errorf("unsupported export format %q", f)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// WriteCSV writes a UTF-8 CSV with BOM and ';' separators.
func (w *Writer) WriteCSV(filename string, txs []core.Transaction) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", filename, err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("error writing BOM to %s: %w", filename, err)
	}

	writer := csv.NewWriter(file)
	writer.Comma = ';'

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("error writing header to %s: %w", filename, err)
	}
	for _, tx := range txs {
		if err := writer.Write(w.record(tx)); err != nil {
			return fmt.Errorf("error writing transaction to %s: %w", filename, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing writer for %s: %w", filename, err)
	}
	return file.Close()
}

// WriteXLSX writes a single-sheet workbook with numeric amount cells.
func (w *Writer) WriteXLSX(filename string, txs []core.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("error naming sheet in %s: %w", filename, err)
	}

	for col, h := range headers {
		if err := setCell(f, col, 1, h); err != nil {
			return fmt.Errorf("error writing header to %s: %w", filename, err)
		}
	}
	for i, tx := range txs {
		row := i + 2
		values := []any{
			tx.ID,
			w.dates.FormatMillis(tx.CreatedAt),
			string(tx.Kind),
			tx.Category.String(),
			tx.Description,
			tx.Amount,
			w.currency,
			tx.CreatedAt,
			optionalMillis(tx.UpdatedAt),
		}
		for col, v := range values {
			if err := setCell(f, col, row, v); err != nil {
				return fmt.Errorf("error writing transaction to %s: %w", filename, err)
			}
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("error saving %s: %w", filename, err)
	}
	return nil
}

func (w *Writer) record(tx core.Transaction) []string {
	updated := ""
	if tx.UpdatedAt != 0 {
		updated = strconv.FormatInt(tx.UpdatedAt, 10)
	}
	return []string{
		tx.ID,
		w.dates.FormatMillis(tx.CreatedAt),
		string(tx.Kind),
		tx.Category.String(),
		tx.Description,
		strconv.FormatFloat(tx.Amount, 'f', -1, 64),
		w.currency,
		strconv.FormatInt(tx.CreatedAt, 10),
		updated,
	}
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetName, cell, v)
}

func optionalMillis(ms int64) any {
	if ms == 0 {
		return ""
	}
	return ms
}
