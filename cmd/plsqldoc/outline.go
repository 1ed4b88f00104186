package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/diagfmt"
	"plsqldoc/internal/driver"
	"plsqldoc/internal/outline"
	"plsqldoc/internal/source"
)

var outlineCmd = &cobra.Command{
	Use:   "outline [flags] <file.sql|directory>",
	Short: "Extract the documentation outline of PL/SQL scripts",
	Long: `Outline lists the documented units of a script, or of every script under a
directory: packages, types and routines with their members, doc comments and pragmas`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
}

func runOutline(cmd *cobra.Command, args []string) error {
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
	case "pretty", "json", "yaml":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	cleanup, err := instrument(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := s.driverOptions()
	opts.Cache = s.openCache()

	var (
		fs      *source.FileSet
		results []driver.OutlineResult
	)
	err = runWithProgress(s, "outlining", root, opts, func(o driver.Options) error {
		var runErr error
		fs, results, runErr = driver.OutlineDir(cmd.Context(), root, o)
		return runErr
	})
	if err != nil {
		return fmt.Errorf("outline failed: %w", err)
	}

	outlines := make([]*outline.Outline, 0, len(results))
	bags := make([]*diag.Bag, 0, len(results))
	for _, r := range results {
		bags = append(bags, r.Bag)
		if r.Outline != nil {
			outlines = append(outlines, r.Outline)
		}
	}
	failed := reportBags(cmd, s, fs, bags...)
	printTimings(s, opts.Timer)

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatOutlineJSON(out, outlines)
	case "yaml":
		err = diagfmt.FormatOutlineYAML(out, outlines)
	default:
		err = diagfmt.FormatOutlinePretty(out, outlines, s.useColor(os.Stdout))
	}
	if err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}
	return nil
}
