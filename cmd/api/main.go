package main

import (
	"log"
	"net/http"

	"github.com/noshco/storefront/internal/config"
	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/httpapi"
	"github.com/noshco/storefront/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logger := logging.Init("storefront-api", cfg.Logging.FilePath)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	logger.Info("connected to database")

	handler := httpapi.NewHandler(db, cfg)
	router := httpapi.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("server starting", "port", cfg.Server.Port, "development", cfg.Server.Development)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
