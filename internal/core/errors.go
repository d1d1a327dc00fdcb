// Package core defines the fundamental types and errors for Shootflow.
package core

import "errors"

// Core errors that can occur across the system
var (
	// Routing errors
	ErrUnknownIntent = errors.New("unknown intent")
	ErrUnknownKit    = errors.New("unknown kit")

	// Action errors
	ErrUnknownAction = errors.New("unknown action id")

	// Automation errors
	ErrUnknownTrigger = errors.New("unknown trigger")
	ErrEngineFailed   = errors.New("automation engine failed")

	// Storage errors
	ErrRecordNotFound = errors.New("record not found")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
