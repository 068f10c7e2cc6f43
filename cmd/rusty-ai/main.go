// Package main is the entry point for the rusty-ai editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/empty-buffer/rusty-ai/internal/ai"
	"github.com/empty-buffer/rusty-ai/internal/app"
	"github.com/empty-buffer/rusty-ai/internal/chat"
	"github.com/empty-buffer/rusty-ai/internal/config"
	"github.com/empty-buffer/rusty-ai/internal/renderer/backend"
)

// Version information, set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		// A broken config falls back to defaults but is worth a note
		// before the terminal is claimed.
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}
	if opts.backend != "" {
		cfg.Backend = opts.backend
	}
	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(cfg.Backend)
	}

	client, err := ai.NewClient(cfg.Backend, cfg.APIKey, cfg.OllamaURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := app.NewFileLogger(
		filepath.Join(chat.HistoryDir, "rusty.log"),
		app.ParseLogLevel(cfg.LogLevel),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, logging disabled\n", err)
		logger = app.NullLogger
		closeLog = func() error { return nil }
	}
	defer closeLog()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to claim terminal: %v\n", err)
		return 1
	}
	// Restore the terminal on every exit path.
	defer term.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("rusty-ai %s starting, backend %s model %s", version, client.Name(), cfg.Model)

	editor := app.NewEditor(cfg, client, term, logger)
	if flag.NArg() > 0 {
		editor.Open(flag.Arg(0))
	}
	if err := editor.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) || errors.Is(err, context.Canceled) {
			return 0
		}
		term.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	configPath string
	backend    string
	model      string
	logLevel   string
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to configuration file")
	flag.StringVar(&opts.backend, "backend", "", "AI backend (anthropic, openai, gemini, ollama)")
	flag.StringVar(&opts.model, "model", "", "Model name for the selected backend")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rusty-ai - modal text editor with an AI sidekick\n\n")
		fmt.Fprintf(os.Stderr, "Usage: rusty-ai [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("rusty-ai %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}
	return opts
}

func apiKeyFromEnv(backend string) string {
	switch backend {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	default:
		return ""
	}
}
