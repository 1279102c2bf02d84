package command

import (
	"errors"
	"fmt"
)

var (
	ErrUsage                 = errors.New("usage error")
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	ErrQuery                 = errors.New("query error")
)

// CommandError is a failure reported to the caller as a single response line.
type CommandError struct {
	// Kind is one of ErrUsage, ErrDataSourceUnavailable or ErrQuery.
	Kind error
	// Message is the detail shown inside the response, if any.
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *CommandError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Response renders the line written to the response sink.
func (e *CommandError) Response() string {
	switch e.Kind {
	case ErrUsage:
		return fmt.Sprintf("-USAGE: %s\n", Syntax)
	case ErrDataSourceUnavailable:
		return "-ERR Database error!\n"
	case ErrQuery:
		return fmt.Sprintf("-ERR SQL Error [%s]\n", e.Message)
	default:
		return fmt.Sprintf("-ERR %s\n", e.Error())
	}
}

func usageError() *CommandError {
	return &CommandError{Kind: ErrUsage}
}

func dataSourceError(err error) *CommandError {
	return &CommandError{Kind: ErrDataSourceUnavailable, Message: err.Error(), Err: err}
}

func queryError(err error) *CommandError {
	return &CommandError{Kind: ErrQuery, Message: err.Error(), Err: err}
}
