package reader

import (
	"errors"
	"io"
)

// ErrHeaderRead is returned when the first row of a report is absent or unparseable.
var ErrHeaderRead = errors.New("fail to read the header info")

// Header column positions.
const (
	HeaderCurrencyColumn = iota
	HeaderFailureCodeColumn
	HeaderFailureMessageColumn

	HeaderMinColumns
)

// Body column positions. Columns not listed carry nothing we read.
const (
	BankCodeColumn          = 0
	BankBranchCodeColumn    = 2
	BankAccountNumberColumn = 6
	BankAccountNameColumn   = 7
	AmountColumn            = 8
	FirstEndToEndIDColumn   = 10
	LastEndToEndIDColumn    = 11

	// RowColumns is the exact width of a payment row. Rows of any other
	// width (trailers, blank lines) are skipped.
	RowColumns = 16
)

// FailureHeader is the first row of a report.
type FailureHeader struct {
	Currency       string // CURRENCY
	FailureCode    string // FAILURE CODE
	FailureMessage string // FAILURE MESSAGE
}

// FailureRow holds the raw text of the columns we use from one payment row.
type FailureRow struct {
	BankCode          string
	BankBranchCode    string
	BankAccountNumber string
	BankAccountName   string
	Amount            string
	FirstEndToEndID   string
	LastEndToEndID    string
}

// NewFailureHeader maps a raw header row. It returns false if the row is too narrow.
func NewFailureHeader(columns []string) (FailureHeader, bool) {
	if len(columns) < HeaderMinColumns {
		return FailureHeader{}, false
	}
	return FailureHeader{
		Currency:       columns[HeaderCurrencyColumn],
		FailureCode:    columns[HeaderFailureCodeColumn],
		FailureMessage: columns[HeaderFailureMessageColumn],
	}, true
}

// NewFailureRow maps a raw payment row. It returns false for rows that are
// not exactly RowColumns wide.
func NewFailureRow(columns []string) (FailureRow, bool) {
	if len(columns) != RowColumns {
		return FailureRow{}, false
	}
	return FailureRow{
		BankCode:          columns[BankCodeColumn],
		BankBranchCode:    columns[BankBranchCodeColumn],
		BankAccountNumber: columns[BankAccountNumberColumn],
		BankAccountName:   columns[BankAccountNameColumn],
		Amount:            columns[AmountColumn],
		FirstEndToEndID:   columns[FirstEndToEndIDColumn],
		LastEndToEndID:    columns[LastEndToEndIDColumn],
	}, true
}

// FailureReportReader reads the header and payment rows of a report.
type FailureReportReader interface {
	ReadFailureReport(reader io.Reader) (FailureHeader, []FailureRow, error)
}
