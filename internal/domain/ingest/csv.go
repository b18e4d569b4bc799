package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/statementkit/tvareport/internal/domain/statement"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidate delimiters, in preference order. French bank exports almost
// always use semicolons.
var delimiters = []rune{';', '\t', ',', '|'}

// ReadCSV loads the statement grid from a CSV stream. The delimiter is
// sniffed from the first lines; ragged rows and stray quotes are accepted
// because bank exports are rarely well-formed.
func ReadCSV(r io.Reader) (statement.RawGrid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return statement.RawGrid(records), nil
}

// sniffDelimiter picks the candidate that appears most often across the
// first few lines. Ties go to the earlier candidate.
func sniffDelimiter(data []byte) rune {
	sample := string(data)
	if i := strings.IndexByte(sample, '\n'); i >= 0 {
		lines := strings.SplitN(sample, "\n", 6)
		if len(lines) > 5 {
			lines = lines[:5]
		}
		sample = strings.Join(lines, "\n")
	}

	best := delimiters[0]
	bestCount := strings.Count(sample, string(best))
	for _, d := range delimiters[1:] {
		if c := strings.Count(sample, string(d)); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}
