package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"gobayes/internal/config"
	"gobayes/internal/container"
	apperrors "gobayes/internal/errors"
	"gobayes/internal/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(appConfig.Logging.Format, appConfig.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), appConfig, logger); err != nil {
		fields := []zap.Field{zap.Error(err)}
		if apperrors.IsAppError(err) {
			fields = append(fields, zap.String("code", apperrors.GetCode(err)))
		}
		logger.Error("analysis aborted", fields...)
		fmt.Fprintln(os.Stderr, err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, appConfig *config.Config, logger *zap.Logger) error {
	c, err := container.New(appConfig, logger, container.WithOutput(os.Stdout))
	if err != nil {
		return err
	}
	_, err = c.Run(ctx)
	return err
}
