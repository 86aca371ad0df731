package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dusk-indust/userposts/internal/config"
	"github.com/dusk-indust/userposts/internal/fakeapi"
	"github.com/dusk-indust/userposts/internal/orchestrator"
	"github.com/dusk-indust/userposts/internal/resource"
	"github.com/dusk-indust/userposts/internal/telemetry"
	"github.com/joho/godotenv"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ConfigDir string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Fake      bool
	Dump      bool
	ServeMCP  bool
	Verbose   bool
	Version   bool

	TraceEndpoint string
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var flags cliFlags

	fs := flag.NewFlagSet("userposts", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory containing userposts.yml")
	fs.StringVar(&flags.BaseURL, "base-url", "", "API base URL (default "+resource.DefaultBaseURL+")")
	fs.DurationVar(&flags.Timeout, "timeout", 0, "per-request timeout")
	fs.StringVar(&flags.UserAgent, "user-agent", "", "User-Agent header sent with requests")
	fs.BoolVar(&flags.Fake, "fake", false, "serve generated data from an in-process fake API")
	fs.BoolVar(&flags.Dump, "dump", false, "print every user with their posts as JSON and exit")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as MCP server on stdio")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log fetch failures")
	fs.StringVar(&flags.TraceEndpoint, "otel-endpoint", "", "OTLP/HTTP endpoint for request traces (disabled when empty)")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Println(version)
		return nil
	}

	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "userposts", cfg.TraceEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("userposts: flush traces: %v", err)
		}
	}()

	if flags.Fake {
		api := fakeapi.New(fakeapi.Generate(1, 10, 10))
		base, err := api.Start("127.0.0.1:0")
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = api.Stop(shutdownCtx)
		}()
		cfg.BaseURL = base
	}

	switch {
	case flags.ServeMCP:
		return runMCP(ctx, cfg)
	case flags.Dump:
		return runDump(ctx, cfg, os.Stdout)
	default:
		return runUI(ctx, cfg)
	}
}

// resolveConfig merges defaults, userposts.yml, environment, and flags,
// later sources winning.
func resolveConfig(flags cliFlags) (orchestrator.Config, error) {
	pc, err := config.Load(flags.ConfigDir)
	if err != nil {
		return orchestrator.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if err := pc.ApplyEnv(); err != nil {
		return orchestrator.Config{}, err
	}

	cfg := orchestrator.Config{
		BaseURL: resource.DefaultBaseURL,
		Timeout: resource.DefaultTimeout,
	}
	overlay(&cfg, orchestrator.Config{
		BaseURL:       pc.BaseURL,
		Timeout:       pc.Timeout,
		UserAgent:     pc.UserAgent,
		Verbose:       pc.Verbose,
		TraceEndpoint: pc.TraceEndpoint,
	})
	overlay(&cfg, orchestrator.Config{
		BaseURL:       flags.BaseURL,
		Timeout:       flags.Timeout,
		UserAgent:     flags.UserAgent,
		Verbose:       flags.Verbose,
		TraceEndpoint: flags.TraceEndpoint,
	})

	if err := cfg.Validate(); err != nil {
		return orchestrator.Config{}, err
	}
	return cfg, nil
}

// overlay copies the non-zero fields of src onto cfg.
func overlay(cfg *orchestrator.Config, src orchestrator.Config) {
	if src.BaseURL != "" {
		cfg.BaseURL = src.BaseURL
	}
	if src.Timeout != 0 {
		cfg.Timeout = src.Timeout
	}
	if src.UserAgent != "" {
		cfg.UserAgent = src.UserAgent
	}
	if src.Verbose {
		cfg.Verbose = true
	}
	if src.TraceEndpoint != "" {
		cfg.TraceEndpoint = src.TraceEndpoint
	}
}
