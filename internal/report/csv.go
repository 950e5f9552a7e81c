// Package report turns visitor record sequences into downloadable
// byte formats.
package report

import (
	"encoding/csv"
	"io"
	"time"

	"visitorlog/internal/storage"
)

// CSV column order. Timestamps are serialized as RFC 3339.
var csvHeader = []string{"name", "purpose", "date"}

// WriteCSV serializes every given record as CSV with a header row.
// Quoting and escaping follow encoding/csv, so embedded commas, quotes
// and newlines round-trip.
func WriteCSV(w io.Writer, visitors []storage.Visitor) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, v := range visitors {
		record := []string{v.Name, v.Purpose, v.VisitedAt.Format(time.RFC3339)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
