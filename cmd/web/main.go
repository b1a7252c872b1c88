// ABOUTME: Entry point for the terminal web client
// ABOUTME: Wires config, API client, token store, and the event stream

package main

import (
	"flag"
	"net/url"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/config"
	"github.com/calculi-corp/concourse/internal/eventstream"
	"github.com/calculi-corp/concourse/internal/logger"
	"github.com/calculi-corp/concourse/internal/store"
	"github.com/calculi-corp/concourse/internal/web"
	"github.com/calculi-corp/concourse/internal/web/pages"
	"github.com/calculi-corp/concourse/internal/web/runtime"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "web.yaml", "path to config file")
	targetsPath := flag.String("targets", "targets.yaml", "path to targets file")
	location := flag.String("location", "/", "initial location to open")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger.SetVerbose(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config: %v", err)
	}

	targets, err := config.LoadTargets(*targetsPath)
	if err != nil {
		logger.Fatal("failed to load targets: %v", err)
	}

	target, err := config.SelectTarget(cfg, targets)
	if err != nil {
		logger.Fatal("%v", err)
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Fatal("failed to open state store: %v", err)
	}
	defer func() { _ = st.Close() }()

	client := api.NewClient(target.API, target.Token.Value)

	stream, err := eventstream.Dial(wsURL(target.API) + "/api/v1/events")
	if err != nil {
		logger.Warn("event stream unavailable: %v", err)
		stream = nil
	} else {
		defer func() { _ = stream.Close() }()
	}

	exec := &runtime.Executor{
		API:    client,
		Store:  st,
		Stream: stream,
		Target: cfg.API.Target,
	}

	flags := web.Flags{
		Assets: pages.Assets{
			NotFoundImage:            cfg.Assets.NotFoundImage,
			PipelineRunningKeyframes: cfg.Assets.PipelineRunningKeyframes,
		},
		CSRFToken: csrfTokenFromLocation(*location),
	}

	program := runtime.NewProgram(flags, *location, target.API+"/sky/login", exec)
	if _, err := tea.NewProgram(program, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("program failed: %v", err)
		os.Exit(1)
	}
}

// csrfTokenFromLocation pulls a login-redirect token out of the initial URL.
// The controller strips it from the visible location right after startup.
func csrfTokenFromLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Query().Get("csrf_token")
}

func wsURL(apiURL string) string {
	switch {
	case strings.HasPrefix(apiURL, "https://"):
		return "wss://" + strings.TrimPrefix(apiURL, "https://")
	case strings.HasPrefix(apiURL, "http://"):
		return "ws://" + strings.TrimPrefix(apiURL, "http://")
	}
	return apiURL
}
