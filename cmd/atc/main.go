// ABOUTME: Entry point for the ATC API server
// ABOUTME: Serves the auth-wrapped API mux and the event stream endpoint

package main

import (
	"flag"
	"net/http"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/calculi-corp/concourse/internal/atc"
	"github.com/calculi-corp/concourse/internal/config"
	"github.com/calculi-corp/concourse/internal/eventstream"
	"github.com/calculi-corp/concourse/internal/logger"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "atc.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger.SetVerbose(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config: %v", err)
	}

	csrfToken := uuid.NewString()
	stream := eventstream.NewServer()
	handler := atc.NewHandler(csrfToken, stream)

	logger.Info("atc listening on %s", cfg.Server.BindAddr)
	if err := http.ListenAndServe(cfg.Server.BindAddr, handler); err != nil {
		logger.Fatal("server failed: %v", err)
	}
}
