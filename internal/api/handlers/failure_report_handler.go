package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	service "github.com/zdziszkee/failure-reports/internal/services"
)

// ReportFormField is the multipart field carrying an uploaded report
const ReportFormField = "report"

var errMissingUpload = errors.New("missing report upload")

// FailureReportHandler handles API requests for failure reports
type FailureReportHandler struct {
	service service.FailureReportService
	logger  *zap.Logger
}

// NewFailureReportHandler creates a new handler instance
func NewFailureReportHandler(service service.FailureReportService, logger *zap.Logger) *FailureReportHandler {
	return &FailureReportHandler{service: service, logger: logger}
}

// Extract parses an uploaded report and returns its records without storing them
func (h *FailureReportHandler) Extract(c fiber.Ctx) error {
	err := h.withUpload(c, func(name string, r io.Reader) error {
		result, err := h.service.Extract(c.Context(), name, r)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusOK).JSON(result)
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return nil
}

// Import parses an uploaded report and stores it
func (h *FailureReportHandler) Import(c fiber.Ctx) error {
	err := h.withUpload(c, func(name string, r io.Reader) error {
		report, err := h.service.Import(c.Context(), name, r)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(report)
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return nil
}

// List handles requests for all stored report summaries
func (h *FailureReportHandler) List(c fiber.Ctx) error {
	reports, err := h.service.ListReports(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(reports)
}

// GetByID handles requests for a specific stored report
func (h *FailureReportHandler) GetByID(c fiber.Ctx) error {
	id := c.Params("reportID")

	report, err := h.service.GetReport(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(report)
}

// Delete handles deletion of a stored report
func (h *FailureReportHandler) Delete(c fiber.Ctx) error {
	id := c.Params("reportID")

	if err := h.service.DeleteReport(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Failure report deleted successfully",
	})
}

// withUpload opens the uploaded report for the duration of fn
func (h *FailureReportHandler) withUpload(c fiber.Ctx, fn func(name string, r io.Reader) error) error {
	fileHeader, err := c.FormFile(ReportFormField)
	if err != nil {
		return errMissingUpload
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errMissingUpload
	}
	defer file.Close()

	return fn(fileHeader.Filename, file)
}

func (h *FailureReportHandler) handleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errMissingUpload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A report file is required in the '" + ReportFormField + "' field",
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Failure report not found",
		})
	case errors.Is(err, service.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid input provided",
		})
	case errors.Is(err, service.ErrUnreadableReport):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}
