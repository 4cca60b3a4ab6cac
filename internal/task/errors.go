package task

import "fmt"

const truncatedMarker = "\n[composer-guard: output truncated]"

// ExternalToolError reports an unsuccessful external command. Output is the
// command's combined output, unmodified; Truncated is set when the runner
// dropped the tail of it.
type ExternalToolError struct {
	Output    string
	ExitCode  int
	TimedOut  bool
	Truncated bool
}

func (e *ExternalToolError) Error() string {
	var msg string
	switch {
	case e.Output != "":
		msg = e.Output
	case e.TimedOut:
		msg = "composer validate timed out"
	default:
		msg = fmt.Sprintf("composer validate failed with exit code %d", e.ExitCode)
	}
	if e.Truncated {
		msg += truncatedMarker
	}
	return msg
}
