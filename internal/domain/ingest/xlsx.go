// Package ingest reads bank statement exports into a raw cell grid. It
// makes no attempt to interpret the content; locating headers and coercing
// values is the statement package's job.
package ingest

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/statementkit/tvareport/internal/domain/statement"
)

// ErrNoSheets is returned for a workbook with no sheets at all.
var ErrNoSheets = errors.New("workbook contains no sheets")

// preferredSheets are tried by name before falling back to the first
// sheet. Bank exports commonly name the data sheet after the operations.
var preferredSheets = []string{"Opérations", "Operations", "Mouvements", "Export"}

// ReadXLSX loads the statement grid from a workbook stream.
func ReadXLSX(r io.Reader) (statement.RawGrid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return statement.RawGrid(rows), nil
}

func pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheets
	}
	for _, want := range preferredSheets {
		for _, have := range sheets {
			if have == want {
				return have, nil
			}
		}
	}
	return sheets[0], nil
}
