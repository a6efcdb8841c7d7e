package appointments

import "errors"

// Typed failures surfaced by the transition engine and the repository. The
// boundary layer maps these onto transport status codes.
var (
	// ErrNotFound indicates the referenced appointment or user is absent.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the actor is not a participant in the
	// appointment.
	ErrUnauthorized = errors.New("requestor is not a participant")

	// ErrForbidden indicates the actor lacks the manager role.
	ErrForbidden = errors.New("requestor lacks the manager role")

	// ErrInvalidState indicates the current status does not permit the
	// requested trigger.
	ErrInvalidState = errors.New("operation not permitted in current status")

	// ErrInvalidArgument indicates a malformed or temporally invalid payload.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidTransition indicates a trigger that is not defined for the
	// current state at all.
	ErrInvalidTransition = errors.New("transition not defined for current status")

	// ErrStorage indicates a persistence failure reported by the repository.
	ErrStorage = errors.New("storage failure")
)
