package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/plastyfilm/go-backend/internal/app"
	config "github.com/plastyfilm/go-backend/internal/cfg"
	"github.com/plastyfilm/go-backend/pkg/logger"
)

//	@title						Plastyfilm Store API
//	@version					1.0
//	@description				Каталог, акции и админка магазина упаковочных материалов.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	// .env нужен только локально, в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	log, err := logger.NewZapLogger("plastyfilm-store")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		_ = log.Sync()
		os.Exit(1)
	}
}
