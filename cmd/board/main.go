// Command board is the terminal client of the taskboard API.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/locvowork/taskboard/internal/client"
	"github.com/locvowork/taskboard/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load()

	url := flag.String("url", envOr("TASKBOARD_URL", "http://localhost:8080"), "taskboard API base URL")
	token := flag.String("token", os.Getenv("TASKBOARD_TOKEN"), "bearer token (see `taskboard token <user-id>`)")
	showVersion := flag.Bool("version", false, "print version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("board %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	if *token == "" {
		fmt.Fprintln(os.Stderr, "board: a token is required (-token or TASKBOARD_TOKEN)")
		os.Exit(2)
	}

	m := ui.NewModel(client.New(*url, *token))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
