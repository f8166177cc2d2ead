package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"simplecc/internal/matrix"
	"simplecc/internal/ui"
)

type matrixOutcome struct {
	result matrix.Result
	err    error
}

// runMatrixWithUI runs req while a Bubble Tea program renders progress.
func runMatrixWithUI(ctx context.Context, title string, req matrix.Request) (matrix.Result, error) {
	jobs := req.OSes
	if len(jobs) == 0 {
		jobs = matrix.DefaultOSes()
		req.OSes = jobs
	}
	events := make(chan matrix.Event, 256)
	outcomeCh := make(chan matrixOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Progress = matrix.ChannelSink{Ch: events}
		res, err := matrix.Run(ctx, reqCopy)
		outcomeCh <- matrixOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, jobs, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
