package entity

import "fmt"

type ErrorKind string

const (
	ResolutionError ErrorKind = "ResolutionError"
	EngineError     ErrorKind = "EngineError"
	ArgumentError   ErrorKind = "ArgumentError"
	TransportError  ErrorKind = "TransportError"
)

// ActionError is the failure of a single tool call. It is reported back to
// the model as the call's result and never ends the run.
type ActionError struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *ActionError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, msg)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func NewResolutionError(op string, format string, args ...any) *ActionError {
	return &ActionError{Kind: ResolutionError, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func NewEngineError(op string, err error) *ActionError {
	return &ActionError{Kind: EngineError, Op: op, Err: err}
}

func NewArgumentError(op string, err error) *ActionError {
	return &ActionError{Kind: ArgumentError, Op: op, Err: err}
}

// NewTransportError wraps a failed LLM request.
func NewTransportError(op string, err error) *ActionError {
	return &ActionError{Kind: TransportError, Op: op, Err: err}
}
