package model

import "errors"

// Common errors used across the application
var (
	// Die errors
	ErrInvalidSides = errors.New("die must have at least one side")
	ErrInvalidValue = errors.New("die value out of range")
	ErrBusy         = errors.New("die is in motion")
	ErrDieNotFound  = errors.New("die not found")

	// Turn errors
	ErrNotActive       = errors.New("turn is not active")
	ErrInvalidArgument = errors.New("invalid argument")

	// History errors
	ErrGroupNotFound = errors.New("dice group not found")
	ErrGroupExists   = errors.New("dice group already committed")
)
