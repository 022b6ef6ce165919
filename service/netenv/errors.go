package netenv

import (
	"errors"
	"fmt"
)

// ErrPlatformQuery is matched by every PlatformQueryError.
// Test for it with errors.Is.
var ErrPlatformQuery = errors.New("platform query failed")

// PlatformQueryError is returned when the network configuration of the
// operating system cannot be accessed at all. An empty configuration or
// malformed entries never cause this error.
type PlatformQueryError struct {
	Source string
	Err    error
}

func (err *PlatformQueryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPlatformQuery, err.Source, err.Err)
}

func (err *PlatformQueryError) Unwrap() error { return err.Err }

// Is reports whether target is ErrPlatformQuery.
func (err *PlatformQueryError) Is(target error) bool {
	return target == ErrPlatformQuery //nolint:errorlint // Sentinel comparison.
}

func newQueryError(source string, err error) *PlatformQueryError {
	var pqErr *PlatformQueryError
	if errors.As(err, &pqErr) && pqErr.Source == source {
		return pqErr
	}
	return &PlatformQueryError{
		Source: source,
		Err:    err,
	}
}
