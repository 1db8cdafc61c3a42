package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/locvowork/taskboard/internal/bootstrap"
	"github.com/locvowork/taskboard/internal/config"
	"github.com/locvowork/taskboard/internal/identity"
	"github.com/locvowork/taskboard/internal/logger"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `usage:
  taskboard                 run the API server
  taskboard token <user-id> print a development bearer token
  taskboard --version       print version information`

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v":
			fmt.Printf("taskboard %s (commit: %s, built: %s)\n", version, commit, date)
			return
		case "token":
			if err := printToken(os.Args[2:]); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		default:
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		app.Close()
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.ErrorLog(ctx, "Application failed: %v", err)
		os.Exit(1)
	}
}

func printToken(args []string) error {
	if len(args) != 1 || args[0] == "" {
		return fmt.Errorf("%s", usage)
	}
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	v := identity.NewJWTVerifier(config.DefaultEnvConfig.JWT_SECRET, config.DefaultEnvConfig.JWT_ISSUER)
	token, err := v.Issue(args[0], 30*24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
