package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"visitorlog/internal/storage"
)

// ReadCSVFile parses a visitor CSV export back into records. The file
// may carry a UTF-16 BOM (spreadsheet tools export these); header order
// must be name,purpose,date. A missing or unparseable date falls back
// to now.
func ReadCSVFile(path string) ([]storage.Visitor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader, err := newBOMAwareReader(f)
	if err != nil {
		return nil, err
	}
	return readCSV(reader)
}

// newBOMAwareReader sniffs a UTF-16 BOM and decodes accordingly.
func newBOMAwareReader(f *os.File) (*csv.Reader, error) {
	bom := make([]byte, 2)
	n, err := f.Read(bom)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read BOM: %w", err)
	}

	if n == 2 && (bom[0] == 0xFE && bom[1] == 0xFF || bom[0] == 0xFF && bom[1] == 0xFE) {
		utf16bom := unicode.BOMOverride(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
		decoded := transform.NewReader(io.MultiReader(
			// Prepend BOM bytes back to stream
			strings.NewReader(string(bom)),
			f,
		), utf16bom)
		return csv.NewReader(decoded), nil
	}

	// No BOM, assume sensible UTF-8
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek file: %w", err)
	}
	return csv.NewReader(f), nil
}

func readCSV(reader *csv.Reader) ([]storage.Visitor, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	nameIdx, ok := cols["name"]
	if !ok {
		return nil, fmt.Errorf("CSV file missing required field %q", "name")
	}
	purposeIdx, ok := cols["purpose"]
	if !ok {
		return nil, fmt.Errorf("CSV file missing required field %q", "purpose")
	}
	dateIdx, hasDate := cols["date"]

	var visitors []storage.Visitor
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		visitor := storage.Visitor{
			Name:    strings.TrimSpace(record[nameIdx]),
			Purpose: strings.TrimSpace(record[purposeIdx]),
		}
		if visitor.Name == "" || visitor.Purpose == "" {
			return nil, fmt.Errorf("CSV record missing name or purpose: %v", record)
		}

		visitor.VisitedAt = time.Now()
		if hasDate {
			if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(record[dateIdx])); err == nil {
				visitor.VisitedAt = ts
			}
		}

		visitors = append(visitors, visitor)
	}

	return visitors, nil
}
