package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bamsammich/sneaker/internal/engine"
	"github.com/bamsammich/sneaker/internal/manifest"
	"github.com/bamsammich/sneaker/internal/stats"
	"github.com/bamsammich/sneaker/internal/ui"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [OFFSITE MEDIUM]",
		Short: "Catalog the offsite tree onto the medium",
		Long: `init scans OFFSITE without any exclusions and writes its catalog to MEDIUM.
Any pending instructions and staged data on MEDIUM are discarded.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := roots(args, []string{"OFFSITE", "MEDIUM"},
				[]*string{a.cfg.Paths.Offsite, a.cfg.Paths.Medium})
			if err != nil {
				return err
			}
			eng := engine.New(engine.Options{Logger: a.engineLog})
			progress := a.progress()
			n, err := eng.InitializeCatalog(cmd.Context(), dirs[0], dirs[1], progress.Report)
			progress.Done()
			if err != nil {
				return err
			}
			if !a.quiet {
				fmt.Fprintf(a.stdout, "Cataloged %s files from %s\n", ui.FormatCount(int64(n)), dirs[0])
			}
			return nil
		},
	}
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var sf scanFlags
	cmd := &cobra.Command{
		Use:   "analyze [HOME MEDIUM]",
		Short: "Show what a push would stage",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, list, err := a.analyzeHome(cmd, args, &sf, nil)
			if err != nil {
				return err
			}
			a.printInstructions(list)
			return nil
		},
	}
	sf.register(cmd.Flags())
	return cmd
}

func newPushCmd(a *app) *cobra.Command {
	var (
		sf     scanFlags
		tf     transferFlags
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "push [HOME MEDIUM]",
		Short: "Stage changes from the home tree onto the medium",
		Long: `push compares HOME with the catalog on MEDIUM, copies new and changed files
into MEDIUM/Data and writes the instruction manifest. Copies that do not fit
are left for the next push.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			eng, dirs, list, err := a.analyzeHome(cmd, args, &sf, &tf)
			if err != nil {
				return err
			}
			a.printInstructions(list)
			if dryRun {
				return nil
			}

			progress := a.progress()
			res, err := eng.TransferToMedium(ctx, dirs[0], dirs[1], list, progress.Report)
			progress.Done()
			if err != nil {
				return err
			}
			return a.finish("Transfer", res)
		},
	}
	sf.register(cmd.Flags())
	tf.register(cmd.Flags())
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the instructions without staging anything")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status [MEDIUM]",
		Short: "List the instructions waiting on the medium",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dirs, err := roots(args, []string{"MEDIUM"}, []*string{a.cfg.Paths.Medium})
			if err != nil {
				return err
			}
			list := engine.New(engine.Options{Logger: a.engineLog}).AnalyzeOffsite(dirs[0])
			a.printInstructions(list)
			return nil
		},
	}
}

func newPullCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "pull [OFFSITE MEDIUM]",
		Short: "Apply the staged changes on the medium to the offsite tree",
		Long: `pull applies the manifest on MEDIUM to OFFSITE: moves and renames first,
then deletions, then copies from MEDIUM/Data. Afterwards the manifest and
staged data are removed and a fresh catalog is written.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := roots(args, []string{"OFFSITE", "MEDIUM"},
				[]*string{a.cfg.Paths.Offsite, a.cfg.Paths.Medium})
			if err != nil {
				return err
			}
			eng := engine.New(engine.Options{Logger: a.engineLog})
			list := eng.AnalyzeOffsite(dirs[1])
			a.printInstructions(list)
			if dryRun {
				return nil
			}

			// An apply always runs to completion; swallow interrupts meanwhile.
			_, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			progress := a.progress()
			res, err := eng.ApplyFromMedium(cmd.Context(), dirs[0], dirs[1], list, progress.Report)
			progress.Done()
			if err != nil {
				return err
			}
			return a.finish("Apply", res)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the pending instructions without applying them")
	return cmd
}

// analyzeHome resolves roots and options and runs AnalyzeHome. It returns
// the engine and the resolved HOME and MEDIUM roots for a following push.
func (a *app) analyzeHome(
	cmd *cobra.Command,
	args []string,
	sf *scanFlags,
	tf *transferFlags,
) (*engine.Engine, []string, []manifest.Instruction, error) {
	dirs, err := roots(args, []string{"HOME", "MEDIUM"}, []*string{a.cfg.Paths.Home, a.cfg.Paths.Medium})
	if err != nil {
		return nil, nil, nil, err
	}
	opts, err := engineOptions(cmd, a, sf, tf)
	if err != nil {
		return nil, nil, nil, err
	}
	exclusions, err := sf.exclusions(cmd, a.cfg.Defaults)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.Debug("analyzing", "home", dirs[0], "medium", dirs[1], "exclusions", exclusions)

	eng := engine.New(opts)
	progress := a.progress()
	list, err := eng.AnalyzeHome(cmd.Context(), dirs[0], dirs[1], exclusions, progress.Report)
	progress.Done()
	if err != nil {
		return nil, nil, nil, err
	}
	return eng, dirs, list, nil
}

func (a *app) progress() *ui.Progress {
	fd := os.Stderr.Fd()
	tty := a.stderr == os.Stderr && ui.IsTTY(fd)
	return ui.NewProgress(a.stderr, ui.ProgressOptions{
		TTY:   tty,
		Width: ui.TermWidth(fd),
		Quiet: a.quiet,
		Color: tty,
	})
}

func (a *app) printInstructions(list []manifest.Instruction) {
	if a.quiet {
		return
	}
	fd := os.Stdout.Fd()
	tty := a.stdout == os.Stdout && ui.IsTTY(fd)
	opts := ui.TableOptions{Color: tty}
	if tty {
		opts.Width = ui.TermWidth(fd)
	}
	ui.RenderInstructions(a.stdout, list, opts)
	fmt.Fprintln(a.stdout, ui.Totals(list))
}

// finish prints the summary and maps per-item errors to exit code 1.
func (a *app) finish(title string, res stats.Result) error {
	if !a.quiet || !res.Clean() {
		fmt.Fprint(a.stderr, ui.Summary(title, res, a.stderr == os.Stderr && ui.IsTTY(os.Stderr.Fd())))
	}
	if !res.Clean() {
		slog.Warn(title+" finished with errors", "errors", res.Errors)
		return &exitError{code: 1}
	}
	return nil
}
