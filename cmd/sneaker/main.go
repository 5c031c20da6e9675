package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sneaker/internal/config"
	"github.com/bamsammich/sneaker/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the state shared by all subcommands.
type app struct {
	verbose bool
	quiet   bool
	logFile string

	cfg       config.Config
	stdout    io.Writer
	stderr    io.Writer
	engineLog *slog.Logger
	closers   []io.Closer
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sneaker",
		Short: "Sneakernet sync: carry changes between two trees on a removable drive",
		Long: `sneaker keeps an offsite copy of a directory tree in sync with a home tree
using only a removable drive.

  1. sneaker init OFFSITE MEDIUM     catalog the offsite tree onto the drive
  2. sneaker push HOME MEDIUM        stage changes from home onto the drive
  3. sneaker pull OFFSITE MEDIUM     apply staged changes at the offsite tree

Repeat 2 and 3 as often as you like; the catalog is refreshed by every pull.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetVersionTemplate("sneaker {{.Version}}\n")

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress all output except errors and warnings")
	root.PersistentFlags().StringVar(&a.logFile, "log", "", "write structured JSON log to FILE")

	root.AddCommand(
		newInitCmd(a),
		newAnalyzeCmd(a),
		newPushCmd(a),
		newStatusCmd(a),
		newPullCmd(a),
		newDocsCmd(),
	)
	return root
}

// setup loads the config file and configures logging.
func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	ui.ApplyTheme(cfg.Theme)

	logLevel := slog.LevelWarn
	if a.verbose {
		logLevel = slog.LevelDebug
	} else if a.quiet {
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: logLevel})

	var logHandler slog.Handler = textHandler
	var fileHandler slog.Handler
	if a.logFile != "" {
		lf, err := os.Create(a.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, lf)
		fileHandler = slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logHandler = ui.NewMultiHandler(textHandler, fileHandler)
	}
	slog.SetDefault(slog.New(logHandler))

	// Engine events already reach the terminal through the progress
	// printer, so outside verbose mode they only go to the log file.
	switch {
	case a.verbose:
		a.engineLog = slog.Default()
	case fileHandler != nil:
		a.engineLog = slog.New(fileHandler)
	default:
		a.engineLog = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
