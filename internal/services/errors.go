package services

import "errors"

// Service errors
var (
	ErrNoDatasetConfigured = errors.New("no dataset configured")
	ErrInvalidTopN         = errors.New("top must be positive")
)
