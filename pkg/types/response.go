package types

// ErrorResponse is the wire shape for every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse acknowledges mutations that have no document to return.
type MessageResponse struct {
	Message string `json:"message"`
}
