package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bamsammich/sneaker/internal/config"
	"github.com/bamsammich/sneaker/internal/engine"
	"github.com/bamsammich/sneaker/internal/filter"
)

// patternFlag is a repeatable pflag.Value collecting exclusion patterns in
// command-line order.
type patternFlag struct {
	patterns *[]string
}

func (f patternFlag) String() string { return "" }
func (patternFlag) Type() string     { return "pattern" }

func (f patternFlag) Set(val string) error {
	*f.patterns = append(*f.patterns, val)
	return nil
}

var _ pflag.Value = patternFlag{}

// scanFlags are shared by analyze and push.
type scanFlags struct {
	excludes    []string
	excludeFile string
	tolerance   time.Duration
}

func (f *scanFlags) register(fs *pflag.FlagSet) {
	fs.Var(patternFlag{patterns: &f.excludes}, "exclude",
		"exclude paths matching PATTERN (repeatable; replaces the configured list)")
	fs.StringVar(&f.excludeFile, "exclude-file", "", "read additional exclusion patterns from FILE")
	fs.DurationVar(&f.tolerance, "tolerance", 0,
		"largest modification time difference still treated as unchanged (default 100ms)")
}

// exclusions returns the effective pattern list: --exclude flags or the
// configured/default list, plus any exclusion file.
func (f *scanFlags) exclusions(cmd *cobra.Command, defaults config.DefaultsConfig) ([]string, error) {
	patterns := defaults.Excludes()
	if cmd.Flags().Changed("exclude") {
		patterns = append([]string(nil), f.excludes...)
	}

	file := f.excludeFile
	if !cmd.Flags().Changed("exclude-file") && defaults.ExcludeFile != nil {
		file = *defaults.ExcludeFile
	}
	if file != "" {
		extra, err := filter.ReadPatterns(config.ExpandHome(file))
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, extra...)
	}
	return patterns, nil
}

// transferFlags are push-only.
type transferFlags struct {
	minFree string
	verify  bool
	bwLimit string
}

func (f *transferFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.minFree, "min-free", "", "stop staging when the medium has less free space than SIZE (default 200M)")
	fs.BoolVar(&f.verify, "verify", false, "verify staged payloads with BLAKE3 after copying")
	fs.StringVar(&f.bwLimit, "bwlimit", "", "staging bandwidth limit (e.g. 20M)")
}

// engineOptions merges flags explicitly set on the command line over the
// config file defaults. tf may be nil for commands that do not stage.
func engineOptions(cmd *cobra.Command, a *app, sf *scanFlags, tf *transferFlags) (engine.Options, error) {
	opts := engine.Options{Logger: a.engineLog}
	d := a.cfg.Defaults

	if sf != nil {
		if cmd.Flags().Changed("tolerance") {
			if sf.tolerance <= 0 {
				return opts, fmt.Errorf("invalid --tolerance: must be positive")
			}
			opts.Tolerance = sf.tolerance
		} else if tol, ok, err := d.Tolerance(); err != nil {
			return opts, err
		} else if ok {
			opts.Tolerance = tol
		}
	}

	if tf == nil {
		return opts, nil
	}

	if cmd.Flags().Changed("min-free") {
		n, err := filter.ParseSize(tf.minFree)
		if err != nil {
			return opts, fmt.Errorf("invalid --min-free: %w", err)
		}
		opts.MinFreeBytes = n
	} else if n, ok, err := d.MinFreeBytes(); err != nil {
		return opts, err
	} else if ok {
		opts.MinFreeBytes = n
	}

	if cmd.Flags().Changed("bwlimit") {
		n, err := filter.ParseSize(tf.bwLimit)
		if err != nil {
			return opts, fmt.Errorf("invalid --bwlimit: %w", err)
		}
		opts.BWLimit = n
	} else if n, ok, err := d.BWLimitBytes(); err != nil {
		return opts, err
	} else if ok {
		opts.BWLimit = n
	}

	opts.Verify = tf.verify
	if !cmd.Flags().Changed("verify") && d.Verify != nil {
		opts.Verify = *d.Verify
	}
	return opts, nil
}

// roots resolves positional directory arguments, falling back to the
// [paths] section of the config file when none are given.
func roots(args []string, names []string, fallbacks []*string) ([]string, error) {
	if len(args) == len(names) {
		return args, nil
	}
	if len(args) != 0 {
		return nil, fmt.Errorf("expected %d arguments (%v), got %d", len(names), names, len(args))
	}
	out := make([]string, len(names))
	for i, fb := range fallbacks {
		if fb == nil || *fb == "" {
			return nil, fmt.Errorf("%s not given and not set in [paths] of %s", names[i], config.Path())
		}
		out[i] = config.ExpandHome(*fb)
	}
	return out, nil
}
