package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors that can occur during kernel operations.
var (
	// ErrNilState indicates that a nil state was passed to a queue operation.
	ErrNilState = errors.New("nil interface state")

	// ErrStateOwned indicates that a state is already held by an interface.
	ErrStateOwned = errors.New("state already owned")

	// ErrNotComputable indicates that Compute was called on a stage whose
	// CanCompute currently reports false.
	ErrNotComputable = errors.New("stage cannot compute")

	// ErrInvalidConfiguration indicates that stage or task configuration
	// is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ConnectivityError reports that a wired tree cannot satisfy the interface
// requirements of one or more stages. It is a structured configuration
// report surfaced to whoever assembled the tree, never a crash inside the
// scheduler loop; the tree stays inert until the configuration is fixed.
type ConnectivityError struct {
	// Stage names the stage (or container) whose wiring is inconsistent.
	Stage string

	// Problems lists the individual connectivity violations.
	Problems []string
}

// NewConnectivityError creates an empty report for the given stage.
func NewConnectivityError(stage string) *ConnectivityError {
	return &ConnectivityError{Stage: stage}
}

// Error implements the error interface.
func (e *ConnectivityError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("connectivity error in stage %q: %s", e.Stage, e.Problems[0])
	}
	return fmt.Sprintf("connectivity errors in stage %q: %s", e.Stage, strings.Join(e.Problems, "; "))
}

// Add appends a violation to the report.
func (e *ConnectivityError) Add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Merge folds another error into the report. ConnectivityErrors contribute
// their individual problems; other errors contribute their message.
func (e *ConnectivityError) Merge(err error) {
	if err == nil {
		return
	}
	var ce *ConnectivityError
	if errors.As(err, &ce) {
		for _, p := range ce.Problems {
			e.Problems = append(e.Problems, fmt.Sprintf("%s: %s", ce.Stage, p))
		}
		return
	}
	e.Problems = append(e.Problems, err.Error())
}

// HasProblems reports whether any violations were recorded.
func (e *ConnectivityError) HasProblems() bool { return len(e.Problems) > 0 }

// OrNil returns the report as an error, or nil if no violations were
// recorded. Use it to return from validation passes.
func (e *ConnectivityError) OrNil() error {
	if e.HasProblems() {
		return e
	}
	return nil
}
