package mocks

import (
	"context"
	"errors"

	models "github.com/zdziszkee/failure-reports/internal/models"
)

// MockFailureReportRepository implements the FailureReportRepository interface for testing
type MockFailureReportRepository struct {
	CreateFunc     func(ctx context.Context, report *models.FailureReport) error
	GetByIDFunc    func(ctx context.Context, id string) (*models.FailureReport, error)
	GetRecordsFunc func(ctx context.Context, id string) ([]models.PaymentRecord, error)
	ListFunc       func(ctx context.Context) ([]models.FailureReportSummary, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *MockFailureReportRepository) Create(ctx context.Context, report *models.FailureReport) error {
	return m.CreateFunc(ctx, report)
}

func (m *MockFailureReportRepository) GetByID(ctx context.Context, id string) (*models.FailureReport, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockFailureReportRepository) GetRecords(ctx context.Context, id string) ([]models.PaymentRecord, error) {
	if m.GetRecordsFunc != nil {
		return m.GetRecordsFunc(ctx, id)
	}
	return nil, errors.New("GetRecords not implemented")
}

func (m *MockFailureReportRepository) List(ctx context.Context) ([]models.FailureReportSummary, error) {
	return m.ListFunc(ctx)
}

func (m *MockFailureReportRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}
