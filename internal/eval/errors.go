package eval

import "errors"

// Fatal evaluation conditions. All abort the current Run and surface to
// the caller wrapped with the offending name or operator; nothing is
// retried since evaluation is deterministic.
var (
	// ErrUnboundVariable is returned when a name is absent on the whole
	// environment chain.
	ErrUnboundVariable = errors.New("unbound variable")
	// ErrNotCallable is returned when a call's function position does not
	// evaluate to a function value.
	ErrNotCallable = errors.New("not callable")
	// ErrUnknownOperator is returned for an operator token outside the
	// supported set. A rule-set configuration error, not a program error.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrBadOperand is returned when an arithmetic or ordering operator
	// receives a non-numeric operand.
	ErrBadOperand = errors.New("bad operand")
	// ErrUnhandledTailCall is returned when a frame-reuse signal escapes
	// every activation. Indicates a defect in tail-position tracking.
	ErrUnhandledTailCall = errors.New("unhandled tail call")
)
