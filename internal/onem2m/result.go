package onem2m

import "fmt"

// StatusNoResponse is the sentinel status recorded when no HTTP response was
// received at all (connection refused, timeout, DNS failure).
const StatusNoResponse = -1

// Result is the outcome of a single oneM2M operation.
//
// Operations return Result by value rather than error: the caller decides
// locally whether a failed push changes its own state (it usually must not),
// and degraded connectivity is not exceptional for an edge node.
type Result struct {
	// OK reports whether the operation succeeded at the application layer.
	// Note that for creates, "already exists" (409) is a success.
	OK bool

	// Status is the HTTP status code, or StatusNoResponse for transport errors.
	Status int
}

// success builds a successful Result carrying the observed status.
func success(status int) Result {
	return Result{OK: true, Status: status}
}

// failure builds a failed Result carrying the observed status.
func failure(status int) Result {
	return Result{Status: status}
}

// String renders the result for logging.
func (r Result) String() string {
	if r.Status == StatusNoResponse {
		return "no response"
	}
	if r.OK {
		return fmt.Sprintf("ok (%d)", r.Status)
	}
	return fmt.Sprintf("failed (%d)", r.Status)
}
