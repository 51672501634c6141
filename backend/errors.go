package backend

import "fmt"

// ExecutionError reports that the backend itself failed, timed out or was
// cancelled while running a program. It is surfaced unchanged to the caller;
// the core never retries or masks it.
type ExecutionError struct {
	Backend string
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("backend execution failed: %v", e.Err)
	}
	return fmt.Sprintf("backend %s: execution failed: %v", e.Backend, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// CapabilityError reports that a backend cannot satisfy a structural
// requirement of a figure of merit, such as an insufficient qubit count.
// It is raised before anything is submitted.
type CapabilityError struct {
	Backend string
	Reason  string
}

func (e *CapabilityError) Error() string {
	if e.Backend == "" {
		return "backend capability: " + e.Reason
	}
	return fmt.Sprintf("backend %s: %s", e.Backend, e.Reason)
}
