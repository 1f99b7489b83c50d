package main

import (
	"flag"
	"log"
	"os"

	"StockSentry/internal/app"
	"StockSentry/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s watches=%d", cfg.Environment, len(cfg.Watches))

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := a.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
