// Package delivery abstracts sending formatted messages to the destination
// surface.
package delivery

import (
	"context"
	"fmt"
)

// ErrorKind distinguishes retryable from non-retryable delivery failures.
type ErrorKind string

// Delivery failure kinds.
const (
	Transient ErrorKind = "transient"
	Permanent ErrorKind = "permanent"
)

// Error is the failure value returned by Channel.Send.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s delivery error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Channel is the only egress for formatted content.
type Channel interface {
	Send(ctx context.Context, text string) error
}
