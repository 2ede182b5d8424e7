package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	handler "github.com/zdziszkee/failure-reports/internal/api/handlers"
	"github.com/zdziszkee/failure-reports/internal/api/router"
	config "github.com/zdziszkee/failure-reports/internal/configurations"
	"github.com/zdziszkee/failure-reports/internal/database"
	extractor "github.com/zdziszkee/failure-reports/internal/extractors"
	"github.com/zdziszkee/failure-reports/internal/logging"
	repository "github.com/zdziszkee/failure-reports/internal/repositories"
	service "github.com/zdziszkee/failure-reports/internal/services"
)

var (
	app        = kingpin.New("failurereports", "Extracts payment records from settlement failure reports.")
	configPath = app.Flag("config", "Path to configuration file").Short('c').String()

	extractCmd  = app.Command("extract", "Print the records of a failure report as JSON.")
	extractFile = extractCmd.Arg("file", "Failure report CSV file").Required().String()

	importCmd  = app.Command("import", "Extract a failure report and store it in Trino.")
	importFile = importCmd.Arg("file", "Failure report CSV file").Required().String()

	serveCmd  = app.Command("serve", "Serve the failure report API.").Default()
	serveLoad = serveCmd.Flag("load", "Path to a failure report to import on startup").String()
)

// writeResult prints result as indented JSON
func writeResult(w io.Writer, result any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func runExtract(path string) error {
	result, err := extractor.NewRecordExtractor().Results(path)
	if err != nil {
		return err
	}
	return writeResult(os.Stdout, result)
}

func newService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.FailureReportService, *database.Database, error) {
	db, err := database.New(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := repository.NewSQLFailureReportRepository(db, logger)
	return service.NewFailureReportService(repo, extractor.NewRecordExtractor(), logger), db, nil
}

func runImport(ctx context.Context, cfg *config.Config, logger *zap.Logger, path string) error {
	reportService, db, err := newService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := reportService.ImportFile(ctx, path)
	if err != nil {
		return err
	}

	fmt.Println(report.ID)
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	reportService, db, err := newService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// Auto-load data if configured
	if cfg.Data.AutoLoad && cfg.Data.ReportFile != "" {
		logger.Info("loading failure report", zap.String("file", cfg.Data.ReportFile))

		loadCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		report, err := reportService.ImportFile(loadCtx, cfg.Data.ReportFile)
		cancel()
		if err != nil {
			logger.Warn("failed to load failure report", zap.String("file", cfg.Data.ReportFile), zap.Error(err))
		} else {
			logger.Info("loaded failure report", zap.String("id", report.ID), zap.Int("records", len(report.Records)))
		}
	}

	reportHandler := handler.NewFailureReportHandler(reportService, logger)
	api := router.SetupRoutes(reportHandler, logger, cfg.Server.BodyLimit)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("address", cfg.Server.Address))
		serverErr <- api.Listen(cfg.Server.Address)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := api.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	app.FatalIfError(err, "failed to load configuration")

	// Override config with command line flags if provided
	if *serveLoad != "" {
		cfg.Data.ReportFile = *serveLoad
		cfg.Data.AutoLoad = true
	}

	// Logs go to stderr so extract output stays valid JSON.
	logger, err := logging.New(cfg.Log, cfg.AppName, os.Stderr)
	app.FatalIfError(err, "failed to build logger")
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case extractCmd.FullCommand():
		err = runExtract(*extractFile)
	case importCmd.FullCommand():
		err = runImport(ctx, cfg, logger, *importFile)
	case serveCmd.FullCommand():
		err = runServe(ctx, cfg, logger)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}
