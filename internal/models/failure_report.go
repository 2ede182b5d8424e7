package models

import (
	"encoding/json"
	"time"
)

// Reasons emitted in place of mandatory fields the bank left blank.
const (
	MissingBankAccountNumber = "Bank account number missing"
	MissingBankBranchCode    = "Bank branch code missing"
	MissingEndToEndID        = "End to end id missing"
)

// Amount is a monetary value in the smallest unit of its currency.
type Amount struct {
	Currency string `json:"currency"`
	Subunits int64  `json:"subunits"`
}

// PaymentRecord is one normalized row of a settlement failure report.
type PaymentRecord struct {
	Amount            Amount        `json:"amount"`
	BankAccountName   string        `json:"bank_account_name"`
	BankAccountNumber Field[int64]  `json:"bank_account_number"`
	BankBranchCode    Field[string] `json:"bank_branch_code"`
	BankCode          string        `json:"bank_code"`
	EndToEndID        Field[string] `json:"end_to_end_id"`
}

func (r *PaymentRecord) UnmarshalJSON(data []byte) error {
	type plain PaymentRecord
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*r = PaymentRecord(decoded)
	r.BankBranchCode = r.BankBranchCode.orMissing(MissingBankBranchCode)
	r.EndToEndID = r.EndToEndID.orMissing(MissingEndToEndID)
	return nil
}

// ExtractionResult is everything read from one report file.
type ExtractionResult struct {
	Filename       string          `json:"filename"`
	FailureCode    string          `json:"failure_code"`
	FailureMessage string          `json:"failure_message"`
	Records        []PaymentRecord `json:"records"`
}

// FailureReport is an extraction result stored under its own id.
type FailureReport struct {
	ID         string    `json:"id"`
	ImportedAt time.Time `json:"imported_at"`
	ExtractionResult
}

// FailureReportSummary describes a stored report without its records.
type FailureReportSummary struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	FailureCode    string    `json:"failure_code"`
	FailureMessage string    `json:"failure_message"`
	RecordCount    int       `json:"record_count"`
	ImportedAt     time.Time `json:"imported_at"`
}
