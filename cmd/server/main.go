package main

import (
	"flag"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/entregas/internal/app"
	"github.com/shrimpsizemoose/entregas/internal/handlers"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	if err := service.Config.RequireServer(); err != nil {
		logger.Error.Fatalf("Bad server config: %v", err)
	}
	if service.Store == nil {
		logger.Info.Println("database.dsn is empty, report runs will not be archived")
	}

	logger.Info.Printf("Starting entregas server on %s", service.Config.Server.Port)
	logger.Debug.Println("Requiring headers:")
	for _, h := range service.Config.API.RequiredHeaders {
		logger.Debug.Printf("  %s: %s", h.Name, h.Value)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, handlers.NewRouter(service)); err != nil {
		logger.Error.Fatalf("Entregas server failed: %v", err)
	}
}
