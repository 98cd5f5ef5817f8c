package store

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint is violated.
var ErrConflict = errors.New("conflict")

// timestampLayout is a naive ISO-8601 timestamp with microseconds, the form
// the backend's own scripts write.
const timestampLayout = "2006-01-02T15:04:05.000000"

// nowFunc is replaced in tests that need fixed timestamps.
var nowFunc = time.Now

// now returns the current local time as a naive ISO-8601 string.
func now() string {
	return nowFunc().Format(timestampLayout)
}

// Now is exported for callers that stamp rows outside the stores.
func Now() string {
	return now()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
