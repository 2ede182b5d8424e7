package extractor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	models "github.com/zdziszkee/failure-reports/internal/models"
	parser "github.com/zdziszkee/failure-reports/internal/parsers"
	readers "github.com/zdziszkee/failure-reports/internal/readers"
	"github.com/zdziszkee/failure-reports/internal/readers/csv"
)

var (
	ErrNotFound   = errors.New("file not found")
	ErrOpen       = errors.New("file open failed")
	ErrHeaderRead = readers.ErrHeaderRead
)

// RecordExtractor turns a settlement failure report into payment records.
// It holds no per-call state and is safe for concurrent use.
type RecordExtractor struct {
	reader readers.FailureReportReader
	parser parser.FailureRecordsParser
}

// NewRecordExtractor creates an extractor backed by the CSV report reader
func NewRecordExtractor() *RecordExtractor {
	return &RecordExtractor{
		reader: &csv.CSVFailureReportReader{},
		parser: parser.DefaultFailureRecordsParser{},
	}
}

// NewRecordExtractorWith creates an extractor with custom reading and parsing stages
func NewRecordExtractorWith(reader readers.FailureReportReader, p parser.FailureRecordsParser) *RecordExtractor {
	return &RecordExtractor{reader: reader, parser: p}
}

// Results extracts the report stored at path. The file is closed before
// Results returns, on success and on failure.
func (e *RecordExtractor) Results(path string) (*models.ExtractionResult, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	defer file.Close()

	return e.ResultsFrom(path, file)
}

// ResultsFrom extracts a report from an already opened stream. Only the base
// name of name is kept in the result.
func (e *RecordExtractor) ResultsFrom(name string, r io.Reader) (*models.ExtractionResult, error) {
	header, rows, err := e.reader.ReadFailureReport(r)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", filepath.Base(name), err)
	}

	records, err := e.parser.ParseFailureRecords(header, rows)
	if err != nil {
		return nil, fmt.Errorf("parse report %s: %w", filepath.Base(name), err)
	}

	return &models.ExtractionResult{
		Filename:       filepath.Base(name),
		FailureCode:    header.FailureCode,
		FailureMessage: header.FailureMessage,
		Records:        records,
	}, nil
}
