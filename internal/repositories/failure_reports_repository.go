package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zdziszkee/failure-reports/internal/database"
	model "github.com/zdziszkee/failure-reports/internal/models"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("failure report not found")
)

const (
	reportColumns = "id, filename, failure_code, failure_message, record_count, imported_at"
	recordColumns = "report_id, position, currency, subunits, bank_account_name, bank_account_number, bank_branch_code, bank_code, end_to_end_id"
)

// FailureReportRepository defines the interface for failure report storage
type FailureReportRepository interface {
	Create(ctx context.Context, report *model.FailureReport) error
	GetByID(ctx context.Context, id string) (*model.FailureReport, error)
	GetRecords(ctx context.Context, id string) ([]model.PaymentRecord, error)
	List(ctx context.Context) ([]model.FailureReportSummary, error)
	Delete(ctx context.Context, id string) error
}

// SQLFailureReportRepository implements FailureReportRepository using Trino via database/sql
type SQLFailureReportRepository struct {
	db      *sql.DB
	catalog string
	schema  string
	logger  *zap.Logger
}

// NewSQLFailureReportRepository creates a new repository instance with Trino
func NewSQLFailureReportRepository(db *database.Database, logger *zap.Logger) FailureReportRepository {
	return &SQLFailureReportRepository{
		db:      db.DB,
		catalog: db.Config.Catalog,
		schema:  db.Config.Schema,
		logger:  logger,
	}
}

const batchSize = 100

// Create inserts the report row followed by its records in batches
func (r *SQLFailureReportRepository) Create(ctx context.Context, report *model.FailureReport) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)", r.reportsTable(), reportColumns)
	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.Filename,
		report.FailureCode,
		report.FailureMessage,
		len(report.Records),
		report.ImportedAt,
	)
	if err != nil {
		return fmt.Errorf("trino insert report failed: %w", err)
	}

	totalRows := len(report.Records)
	for i := 0; i < totalRows; i += batchSize {
		endIdx := min(i+batchSize, totalRows)
		if err := r.insertRecords(ctx, report.ID, i, report.Records[i:endIdx]); err != nil {
			return fmt.Errorf("trino batch insert failed for records %d-%d: %w", i+1, endIdx, err)
		}
	}

	r.logger.Info("stored failure report",
		zap.String("id", report.ID),
		zap.String("filename", report.Filename),
		zap.Int("records", totalRows),
	)
	return nil
}

func (r *SQLFailureReportRepository) insertRecords(ctx context.Context, reportID string, offset int, records []model.PaymentRecord) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES ", r.recordsTable(), recordColumns))
	placeholders := make([]string, 0, len(records))
	args := make([]any, 0, len(records)*9)

	for i, record := range records {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			reportID,
			offset+i,
			record.Amount.Currency,
			record.Amount.Subunits,
			record.BankAccountName,
			nullable(record.BankAccountNumber),
			nullable(record.BankBranchCode),
			record.BankCode,
			nullable(record.EndToEndID),
		)
	}
	sb.WriteString(strings.Join(placeholders, ", "))

	start := time.Now()
	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return err
	}
	r.logger.Debug("inserted record batch",
		zap.String("report_id", reportID),
		zap.Int("rows", len(records)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// GetByID retrieves a report together with its records
func (r *SQLFailureReportRepository) GetByID(ctx context.Context, id string) (*model.FailureReport, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", reportColumns, r.reportsTable())
	summary, err := scanSummary(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("trino query failed: %w", err)
	}

	records, err := r.GetRecords(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.FailureReport{
		ID:         summary.ID,
		ImportedAt: summary.ImportedAt,
		ExtractionResult: model.ExtractionResult{
			Filename:       summary.Filename,
			FailureCode:    summary.FailureCode,
			FailureMessage: summary.FailureMessage,
			Records:        records,
		},
	}, nil
}

// GetRecords retrieves the records of a report in their original order
func (r *SQLFailureReportRepository) GetRecords(ctx context.Context, id string) ([]model.PaymentRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE report_id = ? ORDER BY position", recordColumns, r.recordsTable())
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("trino query failed: %w", err)
	}
	defer rows.Close()

	records := []model.PaymentRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("trino scan failed: %w", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

// List retrieves all stored reports without their records, newest first
func (r *SQLFailureReportRepository) List(ctx context.Context) ([]model.FailureReportSummary, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY imported_at DESC", reportColumns, r.reportsTable())
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("trino query failed: %w", err)
	}
	defer rows.Close()

	summaries := []model.FailureReportSummary{}
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("trino scan failed: %w", err)
		}
		summaries = append(summaries, *summary)
	}

	return summaries, rows.Err()
}

// Delete removes a report and its records
func (r *SQLFailureReportRepository) Delete(ctx context.Context, id string) error {
	if err := r.checkExists(ctx, id); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE report_id = ?", r.recordsTable())
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("trino delete records failed: %w", err)
	}

	query = fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.reportsTable())
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("trino delete report failed: %w", err)
	}

	return nil
}

// Helper methods

func (r *SQLFailureReportRepository) reportsTable() string {
	return r.qualify("failure_reports")
}

func (r *SQLFailureReportRepository) recordsTable() string {
	return r.qualify("failure_records")
}

func (r *SQLFailureReportRepository) qualify(table string) string {
	if r.catalog == "" || r.schema == "" {
		return table
	}
	return fmt.Sprintf("%s.%s.%s", r.catalog, r.schema, table)
}

func (r *SQLFailureReportRepository) checkExists(ctx context.Context, id string) error {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? LIMIT 1", r.reportsTable())
	var exists int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("trino check exists failed: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (*model.FailureReportSummary, error) {
	var summary model.FailureReportSummary
	err := row.Scan(
		&summary.ID,
		&summary.Filename,
		&summary.FailureCode,
		&summary.FailureMessage,
		&summary.RecordCount,
		&summary.ImportedAt,
	)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func scanRecord(row scanner) (*model.PaymentRecord, error) {
	var (
		record        model.PaymentRecord
		reportID      string
		position      int
		accountNumber sql.NullInt64
		branchCode    sql.NullString
		endToEndID    sql.NullString
	)

	err := row.Scan(
		&reportID,
		&position,
		&record.Amount.Currency,
		&record.Amount.Subunits,
		&record.BankAccountName,
		&accountNumber,
		&branchCode,
		&record.BankCode,
		&endToEndID,
	)
	if err != nil {
		return nil, err
	}

	record.BankAccountNumber = model.Missing[int64](model.MissingBankAccountNumber)
	if accountNumber.Valid {
		record.BankAccountNumber = model.Present(accountNumber.Int64)
	}
	record.BankBranchCode = model.Missing[string](model.MissingBankBranchCode)
	if branchCode.Valid {
		record.BankBranchCode = model.Present(branchCode.String)
	}
	record.EndToEndID = model.Missing[string](model.MissingEndToEndID)
	if endToEndID.Valid {
		record.EndToEndID = model.Present(endToEndID.String)
	}

	return &record, nil
}

// nullable maps a missing field to SQL NULL.
func nullable[T any](field model.Field[T]) any {
	value, ok := field.Value()
	if !ok {
		return nil
	}
	return value
}
