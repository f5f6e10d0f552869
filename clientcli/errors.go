package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
)

// Errors for configuration validation.
var (
	ErrTokenRequired  = errors.New("share token is required")
	ErrConfigRequired = errors.New("config is required")
	ErrNotShareServer = errors.New("endpoint does not speak the sharebox upload protocol")
)

// Errors for input validation.
var (
	ErrEmptyPath = errors.New("path is required")
	ErrEmptyKey  = errors.New("file id is required")
)
