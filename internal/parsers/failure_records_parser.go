package parser

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	models "github.com/zdziszkee/failure-reports/internal/models"
	readers "github.com/zdziszkee/failure-reports/internal/readers"
)

// Leading numeric prefixes; anything after them is ignored the way the bank's
// own export tooling coerces text to numbers.
var (
	decimalPrefixRegex = regexp.MustCompile(`^\s*([+-]?)(?:(\d+)(?:\.(\d*))?|\.(\d+))(?:[eE]([+-]?\d+))?`)
	integerPrefixRegex = regexp.MustCompile(`^\s*([+-]?\d+)`)
)

var (
	maxSubunits = decimal.NewFromInt(math.MaxInt64)
	minSubunits = decimal.NewFromInt(math.MinInt64)
)

// Amounts of 10^maxAmountMagnitude or more never fit in int64 subunits.
const maxAmountMagnitude = 21

type FailureRecordsParser interface {
	ParseFailureRecords(header readers.FailureHeader, rows []readers.FailureRow) ([]models.PaymentRecord, error)
}

type DefaultFailureRecordsParser struct{}

func (p DefaultFailureRecordsParser) ParseFailureRecords(header readers.FailureHeader, rows []readers.FailureRow) ([]models.PaymentRecord, error) {
	records := make([]models.PaymentRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ParseFailureRow(header, row))
	}
	return records, nil
}

// ParseFailureRow normalizes a single payment row. The currency comes from the
// report header; everything else comes from the row.
func ParseFailureRow(header readers.FailureHeader, row readers.FailureRow) models.PaymentRecord {
	return models.PaymentRecord{
		Amount: models.Amount{
			Currency: header.Currency,
			Subunits: Subunits(row.Amount),
		},
		BankAccountName:   AccountName(row.BankAccountName),
		BankAccountNumber: AccountNumber(row.BankAccountNumber),
		BankBranchCode:    BranchCode(row.BankBranchCode),
		BankCode:          row.BankCode,
		EndToEndID:        EndToEndID(row.FirstEndToEndID, row.LastEndToEndID),
	}
}

// Subunits converts a decimal amount to hundredths, truncating anything finer.
// Blank amounts and text without a leading number are zero. Amounts beyond the
// int64 range saturate, like AccountNumber.
func Subunits(amount string) int64 {
	if isBlank(amount) {
		return 0
	}
	match := decimalPrefixRegex.FindStringSubmatch(amount)
	if match == nil {
		return 0
	}
	negative := match[1] == "-"

	digits, point := significantDigits(match[2], match[3]+match[4], match[5])
	if digits == "" {
		return 0
	}
	if point > maxAmountMagnitude {
		return saturate(negative)
	}

	// Digits past the hundredths never survive truncation.
	keep := point + 2
	if keep <= 0 {
		return 0
	}
	if keep < int64(len(digits)) {
		digits = digits[:keep]
	}

	value := decimal.RequireFromString(digits).Shift(int32(keep - int64(len(digits))))
	if negative {
		value = value.Neg()
	}
	switch {
	case value.GreaterThan(maxSubunits):
		return math.MaxInt64
	case value.LessThan(minSubunits):
		return math.MinInt64
	}
	return value.IntPart()
}

// significantDigits strips the zeros around the digits of a number and
// returns them with the position of the decimal point, so the number equals
// 0.digits × 10^point.
func significantDigits(whole, fraction, exponent string) (string, int64) {
	digits := whole + fraction
	trimmed := strings.TrimLeft(digits, "0")
	point := int64(len(whole)) - int64(len(digits)-len(trimmed))
	trimmed = strings.TrimRight(trimmed, "0")
	if trimmed == "" {
		return "", 0
	}

	if exponent != "" {
		// ParseInt clamps to the int32 bounds on overflow.
		shift, _ := strconv.ParseInt(exponent, 10, 32)
		point += shift
	}
	return trimmed, point
}

func saturate(negative bool) int64 {
	if negative {
		return math.MinInt64
	}
	return math.MaxInt64
}

func AccountName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func AccountNumber(number string) models.Field[int64] {
	if isBlank(number) {
		return models.Missing[int64](models.MissingBankAccountNumber)
	}
	match := integerPrefixRegex.FindStringSubmatch(number)
	if match == nil {
		return models.Present[int64](0)
	}

	value, err := strconv.ParseInt(match[1], 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		// Saturate out-of-range numbers instead of failing the row.
		if strings.HasPrefix(match[1], "-") {
			value = math.MinInt64
		} else {
			value = math.MaxInt64
		}
	}
	return models.Present(value)
}

func BranchCode(code string) models.Field[string] {
	if isBlank(code) {
		return models.Missing[string](models.MissingBankBranchCode)
	}
	return models.Present(code)
}

// EndToEndID joins the two halves of the id with no separator. It is only
// missing when both halves are blank.
func EndToEndID(first, last string) models.Field[string] {
	if isBlank(first) && isBlank(last) {
		return models.Missing[string](models.MissingEndToEndID)
	}
	return models.Present(first + last)
}

// isBlank treats "0" as empty, matching how the report marks unset columns.
func isBlank(value string) bool {
	return value == "" || value == "0"
}
