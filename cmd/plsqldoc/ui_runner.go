package main

import (
	"os"

	"plsqldoc/internal/driver"
	"plsqldoc/internal/ui"
)

// runWithProgress runs work over root, behind the progress UI when it is
// enabled. work gets opts with Progress set accordingly.
func runWithProgress(s *settings, title, root string, opts driver.Options, work func(driver.Options) error) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() || s.ui == uiModeOff {
		return work(opts)
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = driver.DefaultExtensions
	}
	files, err := driver.ListFiles(root, exts)
	if err != nil {
		return err
	}
	if !shouldUseTUI(s.ui, s.quiet, len(files)) {
		return work(opts)
	}
	return ui.Run(os.Stderr, title, files, func(sink driver.ProgressSink) error {
		withSink := opts
		withSink.Progress = sink
		return work(withSink)
	})
}
