package domain

import "errors"

// Errors shared between the repository and service layers.
var (
	ErrNotParticipant    = errors.New("user is not a participant in this swap")
	ErrPendingSwapExists = errors.New("a pending swap already exists between these users")
	ErrSwapNotPending    = errors.New("swap is not pending")
)
