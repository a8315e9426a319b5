// cmd/specforge-tui/main.go
//
// Terminal client for the SpecForge API. Reads ~/.specforge/client.yaml
// (optional), then SPECFORGE_API_URL, then flags.

package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"specforge/internal/client"
	"specforge/internal/config"
	"specforge/internal/logging"
	"specforge/internal/tui"
)

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving home directory: %v\n", err)
		os.Exit(1)
	}

	configPath := flag.String("config", config.DefaultClientConfigPath(home), "path to the client config file")
	apiURL := flag.String("api-url", "", "SpecForge API base URL (overrides config)")
	flag.Parse()

	cfg, err := config.LoadClientConfig(home, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// stdout belongs to the UI, so diagnostics go to a file
	logger, err := logging.NewFileLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logger.Close()
	logger.Printf("Session opened · api=%s", cfg.APIURL)

	api := client.New(cfg.APIURL, client.WithTimeout(cfg.RequestTimeout))
	app := tui.NewApp(api,
		tui.WithLogger(logger),
		tui.WithDeleteConfirmWindow(cfg.DeleteConfirmWindow),
	)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
