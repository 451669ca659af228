package errors

const (
	HttpInternalError         = "internal_error"
	HttpInvalidQueryError     = "invalid_query"
	HttpPayloadTooLargeError  = "payload_too_large"
	HttpReadBodyError         = "read_body_failed"
	HttpSnapshotNotFoundError = "snapshot_not_found"
)

// ErrorResponse is the error response body for API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
