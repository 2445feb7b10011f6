package services

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	// ErrConflict is returned by stores when a unique constraint rejects a write.
	ErrConflict = errors.New("conflict")
	// ErrUpstream marks failures of outbound calls (link metadata fetches).
	ErrUpstream = errors.New("upstream failure")
)
