package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/source"
)

const logName = "plsqldoc"

func setupLogging(cmd *cobra.Command) error {
	verbose, err := cmd.Root().PersistentFlags().GetCount("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if verbose > 0 {
		commonlog.Configure(verbose, nil)
	}
	return nil
}

// logDiagnostics mirrors the bags to the log when --verbose is set.
func logDiagnostics(cmd *cobra.Command, fs *source.FileSet, bags ...*diag.Bag) {
	verbose, _ := cmd.Root().PersistentFlags().GetCount("verbose")
	if verbose == 0 {
		return
	}
	rep := diag.NewLogReporter(logName, fs)
	for _, bag := range bags {
		if bag == nil {
			continue
		}
		for _, d := range bag.Items() {
			rep.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		}
	}
}
