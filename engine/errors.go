package engine

import "errors"

// Command rejections. Every rejected command leaves the game and its
// history untouched; callers match these with errors.Is.
var (
	ErrInvalidSlotIndex       = errors.New("invalid slot index")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrGuessIncomplete        = errors.New("guess incomplete")
	ErrRosterConstraint       = errors.New("roster constraint violation")
	ErrHandFull               = errors.New("hand full")
)
