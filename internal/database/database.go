package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/trinodb/trino-go-client/trino" // Trino driver
	"go.uber.org/zap"
)

// Config holds configuration for a Trino database connection
type Config struct {
	ServerURI       string        `koanf:"server_uri"`
	Source          string        `koanf:"source"`
	Catalog         string        `koanf:"catalog"`
	Schema          string        `koanf:"schema"`
	SchemaFile      string        `koanf:"schema_file"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DSN formats the Trino connection string for the config
func (c Config) DSN() (string, error) {
	trinoConfig := &trino.Config{
		ServerURI: c.ServerURI,
		Source:    c.Source,
		Catalog:   c.Catalog,
		Schema:    c.Schema,
	}
	return trinoConfig.FormatDSN()
}

// Database provides a Trino database connection
type Database struct {
	*sql.DB
	Config Config
	Logger *zap.Logger
}

// New initializes a Trino database connection and executes schema
func New(ctx context.Context, config Config, logger *zap.Logger) (*Database, error) {
	dsn, err := config.DSN()
	if err != nil {
		return nil, fmt.Errorf("failed to format Trino DSN: %w", err)
	}

	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Trino connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Trino: %w", err)
	}

	database := &Database{DB: db, Config: config, Logger: logger}

	if config.SchemaFile != "" {
		if err := database.ExecuteSchema(ctx, config.SchemaFile); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute schema: %w", err)
		}
	}

	return database, nil
}

// ExecuteSchema loads and executes a schema file statement by statement
func (db *Database) ExecuteSchema(ctx context.Context, filePath string) error {
	logger := db.logger()
	logger.Info("executing schema", zap.String("file", filePath))

	schemaSQL, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	// Trino does not support multi-statement execution
	for _, query := range splitStatements(string(schemaSQL)) {
		logger.Debug("executing query", zap.String("query", query))
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s, error: %w", query, err)
		}
	}

	logger.Info("schema successfully executed", zap.String("file", filePath))
	return nil
}

func (db *Database) logger() *zap.Logger {
	if db.Logger == nil {
		return zap.NewNop()
	}
	return db.Logger
}

// splitStatements drops comment lines and splits on semicolons.
func splitStatements(schemaSQL string) []string {
	var lines []string
	for _, line := range strings.Split(schemaSQL, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var statements []string
	for _, query := range strings.Split(strings.Join(lines, "\n"), ";") {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		statements = append(statements, query)
	}
	return statements
}
