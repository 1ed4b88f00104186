package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"plsqldoc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "plsqldoc",
	Short: "PL/SQL documentation front end",
	Long: `plsqldoc reads Oracle PL/SQL scripts into a lossless syntax tree and extracts
the documentation outline (units, members, doc comments, pragmas)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
}

// errDiagnostics is returned when a command finished but reported errors;
// the diagnostics themselves are already printed.
var errDiagnostics = errors.New("errors reported")

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	flags.Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	flags.String("config", "", "path to plsqldoc.toml (default: search upwards)")
	flags.CountP("verbose", "v", "mirror diagnostics to the log (repeat for more)")
	flags.String("ui", "auto", "progress UI for directories (auto|on|off)")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Bool("no-cache", false, "do not read or write the outline cache")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "plsqldoc: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
