package domain

import "errors"

var (
	// ErrFetchFailed is returned when an outbound page fetch fails
	// (network error, timeout, or non-2xx status)
	ErrFetchFailed = errors.New("page fetch failed")

	// ErrRobotsDisallowed is returned when robots.txt forbids fetching a URL
	ErrRobotsDisallowed = errors.New("fetch disallowed by robots.txt")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when a key is absent or expired in the result cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrSupplierNotFound is returned when a supplier id is unknown to the store
	ErrSupplierNotFound = errors.New("supplier not found")
)
