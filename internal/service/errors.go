package service

import "errors"

// Sentinel errors shared by the services. Handlers translate them to HTTP
// statuses at the request boundary.
var (
	// ErrInvalidInput covers request payloads that fail schema checks.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict covers unique-key collisions such as duplicate emails.
	ErrConflict = errors.New("already exists")
	// ErrNotFound covers ids with no backing row.
	ErrNotFound = errors.New("not found")
	// ErrUpstream covers failed or unparseable responses from the AI service.
	ErrUpstream = errors.New("upstream AI request failed")
)
