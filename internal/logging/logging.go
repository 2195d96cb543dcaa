package logging

import (
	"strings"

	"gobayes/internal/errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log output formats
const (
	FormatDev  = "dev"
	FormatProd = "prod"
)

// NewDevLogger creates a new logger with a given log level for use in development (i.e., not
// production).
func NewDevLogger(logLevel zapcore.Level) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Level.SetLevel(logLevel)
	return config.Build()
}

// NewProdLogger creates a new JSON logger with a given log level.
func NewProdLogger(logLevel zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level.SetLevel(logLevel)
	return config.Build()
}

// New builds a logger from a format ("dev" or "prod") and a level name.
func New(format, level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.Set(strings.ToLower(strings.TrimSpace(level))); err != nil {
		return nil, errors.ConfigInvalid("LOG_LEVEL must be one of debug, info, warn, error")
	}

	var (
		logger *zap.Logger
		err    error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatDev, "":
		logger, err = NewDevLogger(lvl)
	case FormatProd:
		logger, err = NewProdLogger(lvl)
	default:
		return nil, errors.ConfigInvalid("LOG_FORMAT must be dev or prod")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return logger, nil
}

// ErrArray is an array of errors
type ErrArray []error

// MarshalLogArray marshals the array of errors.
func (errs ErrArray) MarshalLogArray(arr zapcore.ArrayEncoder) error {
	for _, err := range errs {
		arr.AppendString(err.Error())
	}
	return nil
}
