package mocks

import (
	"io"

	models "github.com/zdziszkee/failure-reports/internal/models"
)

// MockExtractor implements service.Extractor.
type MockExtractor struct {
	ResultsFunc     func(path string) (*models.ExtractionResult, error)
	ResultsFromFunc func(name string, r io.Reader) (*models.ExtractionResult, error)
}

func (m *MockExtractor) Results(path string) (*models.ExtractionResult, error) {
	return m.ResultsFunc(path)
}

func (m *MockExtractor) ResultsFrom(name string, r io.Reader) (*models.ExtractionResult, error) {
	return m.ResultsFromFunc(name, r)
}
