// Package cmd implements the CLI command structure for taskdeck.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/seed"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
	"taskdeck/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskdeck CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	subcommand := ""
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "":
		// A terminal gets the full-screen interface, a pipe gets the shell.
		if ui.IsTTY(os.Stdout) && ui.IsTTY(os.Stdin) {
			return tuiCommand(ctx, cfg, remainingArgs)
		}
		return shellCommand(ctx, cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "shell":
		return shellCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newService builds the repository, applies the seed file and wires the
// transcript. The returned cleanup closes the transcript writer.
func newService(cfg *config.Config) (*service.Service, func(), error) {
	logger := logging.NewConsoleFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)

	st := store.NewMemory(store.Limits{
		MaxProjects:        cfg.MaxProjects,
		MaxTasksPerProject: cfg.MaxTasksPerProject,
	})

	var opts []service.Option
	cleanup := func() {}
	if cfg.Transcript {
		tr, err := logging.NewTranscript(cfg.LogDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening transcript: %w", err)
		}
		logger.Debug("transcript enabled", "dir", cfg.LogDir, "session", tr.Session())
		opts = append(opts, service.WithTranscript(tr))
		cleanup = func() { _ = tr.Close() }
	}

	svc := service.New(st, opts...)

	if cfg.SeedFile != "" {
		if err := seed.LoadAndApply(cfg.SeedFile, svc); err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.Info("seed applied", "file", cfg.SeedFile, "projects", len(svc.ListProjects()))
	}

	logger.Debug("taskdeck ready", "max_projects", cfg.MaxProjects, "max_tasks", cfg.MaxTasksPerProject)
	return svc, cleanup, nil
}

// tuiCommand launches the full-screen interface.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	svc, cleanup, err := newService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return ui.RunTUI(ctx, svc)
}

// shellCommand reads line commands from stdin until EOF or quit.
func shellCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	svc, cleanup, err := newService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sh := ui.NewShell(svc, os.Stdin, os.Stdout)
	sh.Prompt = ui.IsTTY(os.Stdin)
	return sh.Run(ctx)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("taskdeck version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskdeck - An in-memory project and task manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskdeck [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui           Launch the full-screen interface (default on a terminal)")
	fmt.Fprintln(w, "  shell         Read line commands from stdin (default when piped)")
	fmt.Fprintln(w, "  doctor        Check config, limits and seed file validity")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MAX_NUMBER_OF_PROJECT   Project capacity (default 10)")
	fmt.Fprintln(w, "  MAX_NUMBER_OF_TASK      Task capacity per project (default 200)")
	fmt.Fprintln(w, "  TASKDECK_SEED           Seed file applied at startup")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "All state lives in memory and is lost on exit.")
}
