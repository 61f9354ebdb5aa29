package practicum

import (
	"fmt"
	"net/http"
)

// TransportError wraps a network-level failure reaching the API
// (DNS, connection refused, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("api request failed: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d (%s), want %d",
		e.Code, http.StatusText(e.Code), http.StatusOK)
}

// DecodeError reports a response body that is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decoding api response: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Shape violation kinds used by ShapeError.
const (
	ShapeMissingKey = "missing key"
	ShapeWrongType  = "wrong type"
)

// ShapeError reports a decoded response whose structure does not match
// the documented contract (missing key or wrong value type).
type ShapeError struct {
	Key  string
	Kind string
	Want string // expected type, set for wrong-type violations
}

func (e *ShapeError) Error() string {
	if e.Kind == ShapeWrongType {
		return fmt.Sprintf("api response: key %q: %s, want %s", e.Key, e.Kind, e.Want)
	}
	return fmt.Sprintf("api response: %s %q", e.Kind, e.Key)
}

// RecordError reports a homework record that cannot be turned into a
// notification (empty record, missing name, unknown status).
type RecordError struct {
	Reason string
}

func (e *RecordError) Error() string { return "homework record: " + e.Reason }
