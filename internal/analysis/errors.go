package analysis

import "fmt"

// AnalysisError wraps a failure anywhere in the analysis pipeline with the
// file it was processing and the stage that failed.
type AnalysisError struct {
	FileName string
	Stage    string
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis of %s failed at %s: %v", e.FileName, e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
