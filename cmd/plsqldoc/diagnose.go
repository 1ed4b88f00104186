package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/diagfmt"
	"plsqldoc/internal/driver"
	"plsqldoc/internal/source"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.sql|directory>",
	Short: "Report lexical and syntax problems in PL/SQL scripts",
	Long:  `Diag parses a script, or every script under a directory, and reports the diagnostics only`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	root := args[0]

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := s.outputFormat(cmd, "pretty")
	if err != nil {
		return err
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	cleanup, err := instrument(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := s.driverOptions()
	var (
		fs      *source.FileSet
		results []driver.ParseDirResult
	)
	err = runWithProgress(s, "checking", root, opts, func(o driver.Options) error {
		var runErr error
		fs, results, runErr = driver.ParseDir(cmd.Context(), root, o)
		return runErr
	})
	if err != nil {
		return fmt.Errorf("diagnostics failed: %w", err)
	}

	merged := diag.NewBag(s.maxDiagnostics)
	for _, r := range results {
		logDiagnostics(cmd, fs, r.Bag)
		merged.Merge(filterBag(r.Bag, noWarnings))
	}
	failed := merged.HasErrors()

	switch format {
	case "json":
		driver.AppendTimings(merged, "diag", root, opts.Timer)
		err = diagfmt.JSON(cmd.OutOrStdout(), merged, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeNotes:     withNotes,
		})
	default:
		popts := s.prettyOpts()
		popts.Color = s.useColor(os.Stdout)
		popts.ShowNotes = withNotes
		err = diagfmt.Pretty(cmd.OutOrStdout(), merged, fs, popts)
		if err == nil && !s.quiet {
			err = printSummary(cmd, merged, len(results))
		}
		printTimings(s, opts.Timer)
	}
	if err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

// filterBag drops warnings and infos when noWarnings is set.
func filterBag(bag *diag.Bag, noWarnings bool) *diag.Bag {
	if !noWarnings || bag == nil {
		return bag
	}
	out := diag.NewBag(int(bag.Cap()))
	for _, d := range bag.Filter(diag.SevError) {
		out.Add(d)
	}
	return out
}

func printSummary(cmd *cobra.Command, bag *diag.Bag, files int) error {
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	out := cmd.OutOrStdout()
	if bag.Len() > 0 {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%d file(s) checked: %d error(s), %d warning(s)\n", files, errs, warns)
	return err
}
