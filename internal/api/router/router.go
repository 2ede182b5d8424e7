package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"

	handler "github.com/zdziszkee/failure-reports/internal/api/handlers"
	"github.com/zdziszkee/failure-reports/internal/api/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(reportHandler *handler.FailureReportHandler, logger *zap.Logger, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"message": message,
			})
		},
	})

	// Add global middleware
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())

	// API versioning
	v1 := app.Group("/v1")

	// Failure report endpoints
	v1.Post("/reports/extract", reportHandler.Extract)
	v1.Post("/reports", reportHandler.Import)
	v1.Get("/reports", reportHandler.List)
	v1.Get("/reports/:reportID", reportHandler.GetByID)
	v1.Delete("/reports/:reportID", reportHandler.Delete)
	return app
}
