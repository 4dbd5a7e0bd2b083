package http

// FetchError is returned when a resource cannot be retrieved.
//
// StatusCode and Status are set when the server answered with a non-2xx
// status. For network-level failures (DNS, connection refused, timeout)
// StatusCode is zero and Err holds the cause.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Status
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
