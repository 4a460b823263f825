package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Entity lookup errors
	ErrMsgUserNotFound        = "user not found"
	ErrMsgChallengeNotFound   = "challenge not found"
	ErrMsgParticipantNotFound = "participant not found"
	ErrMsgTierNotFound        = "tier definition not found"

	// Configuration errors
	ErrMsgInvalidChallengeConfig = "invalid challenge configuration"
	ErrMsgConfigTypeMismatch     = "configuration does not match challenge type"
	ErrMsgInvalidLadder          = "invalid tier ladder"

	// Settlement errors
	ErrMsgInsufficientBalance = "insufficient balance"
	ErrMsgAlreadySettled      = "participant already settled"
	ErrMsgInvalidTransition   = "invalid status transition"
	ErrMsgNotActive           = "challenge is not active"

	// Ledger errors
	ErrMsgBalanceDrift = "balance does not reconcile with ledger"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors.
// Wrap these with fmt.Errorf("%w: %s", domain.ErrXxx, details) for context.
var (
	ErrUserNotFound        = errors.New(ErrMsgUserNotFound)
	ErrChallengeNotFound   = errors.New(ErrMsgChallengeNotFound)
	ErrParticipantNotFound = errors.New(ErrMsgParticipantNotFound)
	ErrTierNotFound        = errors.New(ErrMsgTierNotFound)

	ErrInvalidChallengeConfig = errors.New(ErrMsgInvalidChallengeConfig)
	ErrConfigTypeMismatch     = errors.New(ErrMsgConfigTypeMismatch)
	ErrInvalidLadder          = errors.New(ErrMsgInvalidLadder)

	ErrInsufficientBalance = errors.New(ErrMsgInsufficientBalance)
	ErrAlreadySettled      = errors.New(ErrMsgAlreadySettled)
	ErrInvalidTransition   = errors.New(ErrMsgInvalidTransition)
	ErrNotActive           = errors.New(ErrMsgNotActive)

	ErrBalanceDrift = errors.New(ErrMsgBalanceDrift)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
