package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrInvalidUsername = errors.New("username must be 4-12 characters")

	// Registry errors
	ErrAlreadyOnline = errors.New("user is already online")
	ErrUserOffline   = errors.New("user is not online")

	// Session errors
	ErrSessionTerminated = errors.New("session is terminated")
)
