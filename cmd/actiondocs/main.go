package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/actiondocs/internal/config"
	"git.home.luguber.info/inful/actiondocs/internal/logfields"
	"git.home.luguber.info/inful/actiondocs/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:""`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Generate struct {
		Manifest []string `short:"m" help:"Manifest files to document (action.yml or reusable workflow)"`
		Output   string   `short:"o" help:"Destination document"`
		Sections []string `short:"s" help:"Restrict generation to the named sections"`
		DryRun   bool     `help:"Print a unified diff instead of writing"`
		Verify   bool     `help:"Verify the generated document after writing"`
	} `cmd:"" help:"Generate documentation sections into the destination document"`

	Migrate struct {
		Tool   string `short:"t" help:"Source tool whose markers to migrate" required:""`
		File   string `arg:"" help:"Document to migrate"`
		DryRun bool   `help:"Print a unified diff instead of writing"`
		Verify bool   `help:"Verify the migrated document after writing"`
	} `cmd:"" help:"Rewrite another tool's markers to the canonical format"`

	Watch struct {
		Manifest    []string `short:"m" help:"Manifest files to watch"`
		Output      string   `short:"o" help:"Destination document"`
		Every       string   `help:"Periodic full rebuild interval (for example 15m)"`
		MetricsAddr string   `help:"Serve prometheus metrics on this address"`
		StateFile   string   `help:"Fingerprint database path" default:".actiondocs-state.db"`
	} `cmd:"" help:"Watch manifests and regenerate documentation on change"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if CLI.Verbose {
		cfg.Verbose = true
	}

	setupLogging(cfg.Verbose)
	runID := uuid.NewString()
	slog.Debug("Starting", logfields.RunID(runID), slog.String("command", kctx.Command()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch kctx.Command() {
	case "generate":
		err = runGenerate(ctx, cfg)
	case "migrate <file>":
		err = runMigrate(ctx, cfg)
	case "watch":
		err = runWatch(ctx, cfg)
	case "version":
		fmt.Printf("actiondocs %s (commit %s, built %s)\n",
			version.Version, version.GitCommit, version.BuildTime)
		return
	default:
		err = fmt.Errorf("unknown command %q", kctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", logfields.RunID(runID), logfields.Error(err))
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
