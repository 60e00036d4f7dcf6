package pipeline

import (
	"fmt"
)

// Stage names.
const (
	StageListing   = "listing"
	StageSelection = "selection"
	StageDetail    = "detail"
	StageSummarize = "summarize"
)

// StageError reports which stage failed and on what input.
type StageError struct {
	Stage      string
	Identifier string
	Err        error
}

func (e *StageError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("pipeline stage %s (%s): %v", e.Stage, e.Identifier, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
