package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the level and line format of the application logger
type Config struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Formats lists the accepted values of Config.Format
var Formats = []string{"text", "json", "logfmt"}

// New builds a logger writing to w. The service name and host are attached to every entry.
func New(cfg Config, service string, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encoder, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	host, _ := os.Hostname()
	return zap.New(core, zap.AddCaller()).With(
		zap.String("service", service),
		zap.String("host", host),
	), nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(format) {
	case "text":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig), nil
	case "json":
		return zapcore.NewJSONEncoder(encoderConfig), nil
	case "logfmt":
		return zaplogfmt.NewEncoder(encoderConfig), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: must be one of %s", format, strings.Join(Formats, ", "))
	}
}
