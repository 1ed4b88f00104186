package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"plsqldoc/internal/driver"
)

// Run shows progress for work while it runs. work receives the sink to
// report through; its error wins over a UI failure.
func Run(out io.Writer, title string, files []string, work func(driver.ProgressSink) error) error {
	events := make(chan driver.Event, 256)
	done := make(chan error, 1)

	go func() {
		err := work(driver.ChannelSink{Ch: events})
		close(events)
		done <- err
	}()

	program := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	// дочитываем события, чтобы work не застрял на полном канале после Ctrl+C
	go func() {
		for range events {
		}
	}()
	if err := <-done; err != nil {
		return err
	}
	return uiErr
}
