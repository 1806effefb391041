// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure that leaves a pipeline stage carries a machine-readable Kind so the
// CLI can decide how to present it and whether the run can continue.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// and plays well with the standard library's errors.Is and errors.As through Unwrap.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// DataAccess indicates the warehouse could not be queried or returned an unexpected shape.
	DataAccess Kind = "data_access"
	// Filesystem indicates the output directory or a chart file could not be written.
	Filesystem Kind = "filesystem"
	// Render indicates a result table could not be turned into a chart.
	Render Kind = "render"
	// Config indicates invalid flags, config file or connection string.
	Config Kind = "config"
	// Unknown is reported by KindOf for errors that carry no kind.
	Unknown Kind = "unknown"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying error.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Newf builds an unwrapped error with a formatted message.
func Newf(kind Kind, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *E in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *E
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
