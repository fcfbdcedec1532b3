package feed

import "errors"

var (
	// ErrRateLimited is returned when the upstream API answered with
	// HTTP 429. The call is retryable after backoff.
	ErrRateLimited = errors.New("rate limited by upstream API")

	// ErrUnexpectedStatus is returned for non-2xx responses other than 429.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrImageTooLarge is returned by FetchImage when the payload exceeds
	// the configured size cap.
	ErrImageTooLarge = errors.New("image exceeds size limit")

	// ErrInvalidDateRange is returned by FetchRange when the start date is
	// after the end date.
	ErrInvalidDateRange = errors.New("start date is after end date")
)
