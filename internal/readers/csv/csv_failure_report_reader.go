package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	readers "github.com/zdziszkee/failure-reports/internal/readers"
)

type CSVFailureReportReader struct {
}

func (c *CSVFailureReportReader) ReadFailureReport(reader io.Reader) (readers.FailureHeader, []readers.FailureRow, error) {
	csvReader := csv.NewReader(reader)
	// Row width is checked per row; trailers are allowed to differ.
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	columns, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return readers.FailureHeader{}, nil, fmt.Errorf("%w: empty report", readers.ErrHeaderRead)
		}
		return readers.FailureHeader{}, nil, fmt.Errorf("%w: %v", readers.ErrHeaderRead, err)
	}

	header, ok := readers.NewFailureHeader(columns)
	if !ok {
		return readers.FailureHeader{}, nil, fmt.Errorf("%w: expected at least %d columns, got %d",
			readers.ErrHeaderRead, readers.HeaderMinColumns, len(columns))
	}

	var rows []readers.FailureRow
	rowNum := 1
	for {
		columns, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return readers.FailureHeader{}, nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if row, ok := readers.NewFailureRow(columns); ok {
			rows = append(rows, row)
		}
		rowNum++
	}

	return header, rows, nil
}
