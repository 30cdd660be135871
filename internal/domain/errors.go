package domain

import "github.com/pkg/errors"

// Failure kinds surfaced by the storage and media layers. Handlers map these
// to HTTP statuses with errors.Is; wrapping preserves the sentinel.
var (
	// ErrBadInput marks malformed client input (failed numeric coercion,
	// missing required form fields).
	ErrBadInput = errors.New("bad input")

	// ErrImageDecode marks bytes that cannot be decoded as an image.
	ErrImageDecode = errors.New("image decode failed")

	// ErrUploadFailed marks an object-store upload failure.
	ErrUploadFailed = errors.New("object upload failed")

	// ErrPrimaryWrite marks a primary table-store write failure.
	ErrPrimaryWrite = errors.New("primary store write failed")

	// ErrCacheWrite marks a cache write failure after a successful primary
	// write; the stores may disagree until the cache entry expires or the
	// reconcile sweep runs.
	ErrCacheWrite = errors.New("cache write failed")

	// ErrNotFound marks a lookup for a record id that does not exist.
	ErrNotFound = errors.New("record not found")
)
