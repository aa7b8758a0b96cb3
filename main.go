package main

import (
	"flag"
	"log"
	"os"

	"legislature/internal/config"
	"legislature/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("LEGISLATURE_CONFIG"), "path to YAML config file")
	envFile := flag.String("env", ".env", "path to .env file")
	port := flag.Int("port", 0, "server port (overrides config)")
	seed := flag.Uint64("seed", 0, "deck and role seed (overrides config, 0 keeps it)")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *seed != 0 {
		cfg.DeckSeed = *seed
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
