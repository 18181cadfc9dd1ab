package main

import (
	"os"

	"go.uber.org/zap"

	"reminder-service/internal/app"
	"reminder-service/internal/config"
	"reminder-service/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	application := app.New(cfg, log)
	if err := application.Run(); err != nil {
		log.Fatal("application error", zap.Error(err))
	}
}
