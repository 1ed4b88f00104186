package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plsqldoc/internal/diagfmt"
	"plsqldoc/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.sql",
	Short: "Tokenize a PL/SQL script",
	Long:  `Tokenize breaks a PL/SQL script down into tokens with their trivia`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("no-sqlplus", false, "treat REM/PROMPT lines as ordinary text")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

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
	noSQLPlus, err := cmd.Flags().GetBool("no-sqlplus")
	if err != nil {
		return fmt.Errorf("failed to get no-sqlplus flag: %w", err)
	}

	opts := s.driverOptions()
	opts.NoSQLPlus = noSQLPlus
	result, err := driver.Tokenize(filePath, opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	logDiagnostics(cmd, result.FileSet, result.Bag)

	// Выводим диагностику в stderr, если есть
	if !s.quiet && (result.Bag.HasErrors() || result.Bag.HasWarnings()) {
		if err := diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, s.prettyOpts()); err != nil {
			return err
		}
	}
	printTimings(s, opts.Timer)

	if format == "json" {
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	}
	return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens)
}
