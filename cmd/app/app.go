package main

import (
	"os"

	"github.com/DRSN-tech/go-recommender/internal/app"
	config "github.com/DRSN-tech/go-recommender/internal/cfg"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
)

func main() {
	log := logger.NewZerologLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	// Уровень и формат могли прийти из YAML-файла
	log = logger.NewZerologLogger(cfg.Log.Level, cfg.Log.Format)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
