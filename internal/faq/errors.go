package faq

import (
	"errors"
	"fmt"
)

// Sentinel errors. Services wrap these so handlers can map them to HTTP
// status codes with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("faq not found")
	ErrStorage    = errors.New("storage failure")
)

// TranslationError records a failed provider call for one language and field.
// It is absorbed by the manager and never reaches HTTP callers.
type TranslationError struct {
	Lang  Lang
	Field string
	Cause error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate %s to %s: %v", e.Field, e.Lang, e.Cause)
}

func (e *TranslationError) Unwrap() error { return e.Cause }

// CacheError records a failed cache operation. Reads bypass the cache on it.
type CacheError struct {
	Op    string
	Key   string
	Cause error
}

func (e *CacheError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cache %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Cause)
}

func (e *CacheError) Unwrap() error { return e.Cause }
