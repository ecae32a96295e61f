package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable indicates the relational store cannot serve queries.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCacheUnavailable indicates the key-value store cannot be reached.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
