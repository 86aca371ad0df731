package resource

import "fmt"

// maxErrorBody caps how much of a non-2xx response body is kept on a FetchError.
const maxErrorBody = 512

// FetchError is returned for any failed resource call: a non-2xx status,
// a transport failure, or a body that does not decode.
type FetchError struct {
	// Op is the operation name (OpListUsers or OpListPostsByUser).
	Op string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Body holds the start of a non-2xx response body.
	Body string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("resource: %s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("resource: %s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("resource: %s: HTTP %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("resource: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("resource: %s: failed", e.Op)
	}
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
