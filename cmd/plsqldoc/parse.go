package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/diagfmt"
	"plsqldoc/internal/driver"
	"plsqldoc/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.sql|directory>",
	Short: "Parse PL/SQL scripts and print the syntax tree",
	Long:  `Parse reads a script, or every script under a directory in parallel, and prints its syntax tree`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json|yaml)")
}

// fileTree is one entry of a directory dump.
type fileTree struct {
	File string            `json:"file" yaml:"file"`
	Tree *diagfmt.TreeNode `json:"tree,omitempty" yaml:"tree,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	root := args[0]

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := s.outputFormat(cmd, "tree")
	if err != nil {
		return err
	}
	switch format {
	case "tree", "json", "yaml":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	cleanup, err := instrument(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	st, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	opts := s.driverOptions()
	out := cmd.OutOrStdout()

	if !st.IsDir() {
		// Парсинг одного файла
		result, err := driver.ParseFile(cmd.Context(), root, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		failed := reportBags(cmd, s, result.FileSet, result.Bag)
		printTimings(s, opts.Timer)
		if err := writeTree(out, format, result.Script); err != nil {
			return err
		}
		if failed {
			return errDiagnostics
		}
		return nil
	}

	var (
		fs      *source.FileSet
		results []driver.ParseDirResult
	)
	err = runWithProgress(s, "parsing", root, opts, func(o driver.Options) error {
		var runErr error
		fs, results, runErr = driver.ParseDir(cmd.Context(), root, o)
		return runErr
	})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	bags := make([]*diag.Bag, 0, len(results))
	trees := make([]fileTree, 0, len(results))
	for _, r := range results {
		bags = append(bags, r.Bag)
		entry := fileTree{File: r.Path}
		if r.Script != nil {
			entry.Tree = diagfmt.BuildTree(r.Script)
		}
		trees = append(trees, entry)
	}
	failed := reportBags(cmd, s, fs, bags...)
	printTimings(s, opts.Timer)

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(trees)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		for _, t := range trees {
			if err = enc.Encode(t); err != nil {
				break
			}
		}
		if err == nil {
			err = enc.Close()
		}
	default:
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "== %s ==\n", r.Path)
			if err = diagfmt.FormatTree(out, r.Script); err != nil {
				break
			}
		}
	}
	if err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

func writeTree(w io.Writer, format string, script *ast.Script) error {
	switch format {
	case "json":
		return diagfmt.FormatTreeJSON(w, script)
	case "yaml":
		return diagfmt.FormatTreeYAML(w, script)
	default:
		return diagfmt.FormatTree(w, script)
	}
}

// reportBags prints the diagnostics of bags to stderr and reports whether
// any of them holds an error.
func reportBags(cmd *cobra.Command, s *settings, fs *source.FileSet, bags ...*diag.Bag) bool {
	logDiagnostics(cmd, fs, bags...)
	merged := diag.NewBag(s.maxDiagnostics)
	for _, bag := range bags {
		merged.Merge(bag)
	}
	if !s.quiet && merged.Len() > 0 {
		if err := diagfmt.Pretty(os.Stderr, merged, fs, s.prettyOpts()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to print diagnostics: %v\n", err)
		}
	}
	return merged.HasErrors()
}
