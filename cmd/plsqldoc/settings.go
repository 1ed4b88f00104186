package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"plsqldoc/internal/config"
	"plsqldoc/internal/diagfmt"
	"plsqldoc/internal/driver"
	"plsqldoc/internal/observ"
	"plsqldoc/internal/version"
)

// settings are the effective options of one command: plsqldoc.toml first,
// flags given on the command line on top.
type settings struct {
	cfg            *config.Config
	color          string
	pathMode       diagfmt.PathMode
	maxDiagnostics int
	jobs           int
	quiet          bool
	timings        bool
	noCache        bool
	ui             uiMode
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return nil, err
		}
		cfg, err = config.Discover(wd)
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	s := &settings{
		cfg:            cfg,
		color:          cfg.Output.Color,
		maxDiagnostics: cfg.Parse.MaxDiagnostics,
		jobs:           cfg.Parse.Jobs,
	}
	if s.color == "" {
		s.color = "auto"
	}
	if s.pathMode, err = diagfmt.ParsePathMode(cfg.Output.PathMode); err != nil {
		return nil, err
	}

	// флаги перекрывают конфиг только если заданы явно
	if flags.Changed("color") {
		if s.color, err = flags.GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	switch s.color {
	case "auto", "on", "off":
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", s.color)
	}
	if flags.Changed("max-diagnostics") {
		if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.noCache, err = flags.GetBool("no-cache"); err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}
	return s, nil
}

// useColor resolves --color against the stream the output goes to.
func (s *settings) useColor(f *os.File) bool {
	return s.color == "on" || (s.color == "auto" && isTerminal(f))
}

func (s *settings) outputFormat(cmd *cobra.Command, fallback string) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	if !cmd.Flags().Changed("format") && s.cfg.Output.Format != "" {
		format = s.cfg.Output.Format
	}
	if format == "" {
		format = fallback
	}
	return strings.ToLower(format), nil
}

func (s *settings) driverOptions() driver.Options {
	opts := driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		Jobs:           s.jobs,
		Extensions:     s.cfg.Parse.Extensions,
	}
	if s.timings {
		opts.Timer = observ.NewTimer()
	}
	return opts
}

// openCache returns nil when caching is off or the directory is unusable.
func (s *settings) openCache() *driver.DiskCache {
	if s.noCache || !s.cfg.CacheEnabled() {
		return nil
	}
	dir, err := s.cfg.CacheDir()
	if err == nil {
		var cache *driver.DiskCache
		if cache, err = driver.OpenDiskCache(dir, version.CacheSalt()); err == nil {
			return cache
		}
	}
	if !s.quiet {
		fmt.Fprintf(os.Stderr, "warning: outline cache disabled: %v\n", err)
	}
	return nil
}

func (s *settings) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:    s.useColor(os.Stderr),
		Context:  2,
		PathMode: s.pathMode,
	}
}

func printTimings(s *settings, t *observ.Timer) {
	if !s.timings || t == nil {
		return
	}
	fmt.Fprint(os.Stderr, t.Summary())
}
