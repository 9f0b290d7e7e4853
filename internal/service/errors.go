package service

import (
	"errors"
	"fmt"
)

// ErrUnknownRoute is returned when a route name is not in the route table.
var ErrUnknownRoute = errors.New("unknown route")

// errInvalidJSON marks an upstream body that does not parse as JSON.
var errInvalidJSON = errors.New("response body is not valid JSON")

// Kind classifies an upstream failure.
type Kind int

const (
	// KindUnreachable is a transport-level failure: refused, DNS, timeout, cancel.
	KindUnreachable Kind = iota + 1
	// KindInvalidPayload is a response whose body has the wrong shape.
	KindInvalidPayload
	// KindBadStatus is a non-2xx response on a route that needs the body.
	KindBadStatus
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindInvalidPayload:
		return "invalid_payload"
	case KindBadStatus:
		return "bad_status"
	default:
		return "unknown"
	}
}

// UpstreamError describes a failed call to one upstream route.
type UpstreamError struct {
	Kind  Kind
	Route string
	URL   string
	Err   error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindUnreachable:
		return fmt.Sprintf("could not connect to %s service at %s: %v", e.Route, e.URL, e.Err)
	case KindBadStatus:
		return fmt.Sprintf("%s service at %s failed: %v", e.Route, e.URL, e.Err)
	default:
		return fmt.Sprintf("invalid response from %s service at %s: %v", e.Route, e.URL, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
