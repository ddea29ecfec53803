package circuit

import "errors"

var (
	// ErrInvalidInput marks malformed call arguments. Recoverable by
	// resubmitting corrected input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnresolvedComponent marks a node whose component is absent from the
	// pin catalog.
	ErrUnresolvedComponent = errors.New("unresolved component")

	// ErrInvalidPinIndex marks a connection endpoint outside a node's pin list.
	ErrInvalidPinIndex = errors.New("invalid pin index")

	// ErrDesignatorCollision marks two distinct nodes that derive the same
	// reference designator.
	ErrDesignatorCollision = errors.New("reference designator collision")

	// ErrNotFound marks a missing circuit, component or asset.
	ErrNotFound = errors.New("not found")
)

// ErrUnknownNode marks a connection endpoint naming a node that is not part
// of the circuit. It matches ErrInvalidInput under errors.Is.
var ErrUnknownNode = &unknownNodeError{}

type unknownNodeError struct{}

func (*unknownNodeError) Error() string { return "unknown node" }

func (*unknownNodeError) Is(target error) bool { return target == ErrInvalidInput }
