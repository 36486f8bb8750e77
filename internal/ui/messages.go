package ui

import (
	"ytrim/internal/pipeline"
	"ytrim/internal/progress"
)

type jobUpdateMsg struct {
	U progress.Update
}

type jobLogMsg struct {
	L progress.Log
}

type jobResultMsg struct {
	R progress.Result
}

// jobFinishedMsg carries the return values of Service.RunJob.
type jobFinishedMsg struct {
	Res pipeline.Result
	Err error
}
