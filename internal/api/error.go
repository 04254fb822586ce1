package api

// HTTPError carries the status and message returned to the control-plane
// caller; ErrorLog holds the underlying cause for the server log only.
type HTTPError struct {
	StatusCode int
	Message    string
	ErrorLog   error
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ApiError is the error body shape; the field is named "message" on the wire.
type ApiError struct {
	Error string `json:"message"`
}
