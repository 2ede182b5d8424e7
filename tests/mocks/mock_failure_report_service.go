package mocks

import (
	"context"
	"io"

	models "github.com/zdziszkee/failure-reports/internal/models"
)

// MockFailureReportService implements service.FailureReportService.
type MockFailureReportService struct {
	ExtractFunc      func(ctx context.Context, name string, r io.Reader) (*models.ExtractionResult, error)
	ImportFunc       func(ctx context.Context, name string, r io.Reader) (*models.FailureReport, error)
	ImportFileFunc   func(ctx context.Context, path string) (*models.FailureReport, error)
	GetReportFunc    func(ctx context.Context, id string) (*models.FailureReport, error)
	ListReportsFunc  func(ctx context.Context) ([]models.FailureReportSummary, error)
	DeleteReportFunc func(ctx context.Context, id string) error
}

func (m *MockFailureReportService) Extract(ctx context.Context, name string, r io.Reader) (*models.ExtractionResult, error) {
	return m.ExtractFunc(ctx, name, r)
}

func (m *MockFailureReportService) Import(ctx context.Context, name string, r io.Reader) (*models.FailureReport, error) {
	return m.ImportFunc(ctx, name, r)
}

func (m *MockFailureReportService) ImportFile(ctx context.Context, path string) (*models.FailureReport, error) {
	return m.ImportFileFunc(ctx, path)
}

func (m *MockFailureReportService) GetReport(ctx context.Context, id string) (*models.FailureReport, error) {
	return m.GetReportFunc(ctx, id)
}

func (m *MockFailureReportService) ListReports(ctx context.Context) ([]models.FailureReportSummary, error) {
	return m.ListReportsFunc(ctx)
}

func (m *MockFailureReportService) DeleteReport(ctx context.Context, id string) error {
	return m.DeleteReportFunc(ctx, id)
}
