package server

import "errors"

var (
	// ErrNilProcessor is returned by New when no processor is supplied.
	ErrNilProcessor = errors.New("processor is nil")

	// ErrNilCoordinator is returned by New when no coordinator is supplied.
	ErrNilCoordinator = errors.New("coordinator is nil")

	// ErrNilProvider is returned by New when no provider is supplied.
	ErrNilProvider = errors.New("provider is nil")

	// ErrNilFeed is returned by New when no feed source is supplied.
	ErrNilFeed = errors.New("feed source is nil")

	// ErrRunNotFound is returned by the run registry for unknown run ids.
	ErrRunNotFound = errors.New("run not found")
)
