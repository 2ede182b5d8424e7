package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	extractor "github.com/zdziszkee/failure-reports/internal/extractors"
	models "github.com/zdziszkee/failure-reports/internal/models"
	repository "github.com/zdziszkee/failure-reports/internal/repositories"
)

var (
	ErrNotFound         = errors.New("failure report not found")
	ErrInvalidInput     = errors.New("invalid input provided")
	ErrUnreadableReport = errors.New("failure report cannot be read")
)

// Extractor reads failure reports from files or streams
type Extractor interface {
	Results(path string) (*models.ExtractionResult, error)
	ResultsFrom(name string, r io.Reader) (*models.ExtractionResult, error)
}

// FailureReportService handles business logic for failure reports
type FailureReportService interface {
	Extract(ctx context.Context, name string, r io.Reader) (*models.ExtractionResult, error)
	Import(ctx context.Context, name string, r io.Reader) (*models.FailureReport, error)
	ImportFile(ctx context.Context, path string) (*models.FailureReport, error)
	GetReport(ctx context.Context, id string) (*models.FailureReport, error)
	ListReports(ctx context.Context) ([]models.FailureReportSummary, error)
	DeleteReport(ctx context.Context, id string) error
}

// failureReportService implements FailureReportService
type failureReportService struct {
	repo      repository.FailureReportRepository
	extractor Extractor
	logger    *zap.Logger
}

// NewFailureReportService creates a new instance of the failure report service
func NewFailureReportService(repo repository.FailureReportRepository, extractor Extractor, logger *zap.Logger) FailureReportService {
	return &failureReportService{repo: repo, extractor: extractor, logger: logger}
}

// Extract reads a report without storing it
func (s *failureReportService) Extract(ctx context.Context, name string, r io.Reader) (*models.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.extractor.ResultsFrom(name, r)
	if err != nil {
		s.logger.Warn("cannot extract failure report", zap.String("filename", name), zap.Error(err))
		return nil, classify(err)
	}

	s.logger.Debug("extracted failure report",
		zap.String("filename", result.Filename),
		zap.Int("records", len(result.Records)),
	)
	return result, nil
}

// Import reads a report and stores it under a new id
func (s *failureReportService) Import(ctx context.Context, name string, r io.Reader) (*models.FailureReport, error) {
	result, err := s.Extract(ctx, name, r)
	if err != nil {
		return nil, err
	}
	return s.store(ctx, result)
}

// ImportFile reads the report at path and stores it under a new id
func (s *failureReportService) ImportFile(ctx context.Context, path string) (*models.FailureReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.extractor.Results(path)
	if err != nil {
		s.logger.Warn("cannot extract failure report", zap.String("path", path), zap.Error(err))
		return nil, classify(err)
	}
	return s.store(ctx, result)
}

func (s *failureReportService) store(ctx context.Context, result *models.ExtractionResult) (*models.FailureReport, error) {
	report := &models.FailureReport{
		ID:               uuid.NewString(),
		ImportedAt:       time.Now().UTC(),
		ExtractionResult: *result,
	}

	if err := s.repo.Create(ctx, report); err != nil {
		s.logger.Error("cannot store failure report", zap.String("filename", result.Filename), zap.Error(err))
		return nil, err
	}

	s.logger.Info("imported failure report",
		zap.String("id", report.ID),
		zap.String("filename", report.Filename),
		zap.String("failure_code", report.FailureCode),
		zap.Int("records", len(report.Records)),
	)
	return report, nil
}

// GetReport retrieves a stored report with its records
func (s *failureReportService) GetReport(ctx context.Context, id string) (*models.FailureReport, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidInput
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("cannot retrieve failure report", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return report, nil
}

// ListReports retrieves summaries of all stored reports
func (s *failureReportService) ListReports(ctx context.Context) ([]models.FailureReportSummary, error) {
	return s.repo.List(ctx)
}

// DeleteReport removes a stored report
func (s *failureReportService) DeleteReport(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidInput
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.logger.Info("deleted failure report", zap.String("id", id))
	return nil
}

// classify tags errors caused by the report content so callers can tell them
// apart from I/O problems. The original error stays in the chain.
func classify(err error) error {
	var parseErr *csv.ParseError
	if errors.Is(err, extractor.ErrHeaderRead) || errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %w", ErrUnreadableReport, err)
	}
	return err
}
