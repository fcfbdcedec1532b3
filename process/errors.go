package process

import "errors"

var (
	// ErrNoEntries is returned by Run when the input batch is empty.
	ErrNoEntries = errors.New("no entries to process")

	// ErrNilProvider is returned by NewProcessor when no inference
	// provider is supplied.
	ErrNilProvider = errors.New("inference provider is nil")

	// ErrNilCoordinator is returned by NewProcessor when no archive
	// coordinator is supplied.
	ErrNilCoordinator = errors.New("archive coordinator is nil")

	// ErrNilFetcher is returned by NewProcessor when no image fetcher is
	// supplied.
	ErrNilFetcher = errors.New("image fetcher is nil")

	// ErrInvalidMaxAttempts is returned by RetryWithBackoff when the
	// attempt count is not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
