package models

// APIError is the standardized error response format for the API, carrying
// an application-specific error code, a human-readable message, and
// optional details.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Application-specific error codes.
const (
	ErrorCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrorCodeValidation          = "VALIDATION_ERROR"
	ErrorCodeUnparsableCSV       = "UNPARSABLE_CSV"
	ErrorCodeStorageFailure      = "STORAGE_FAILURE"
)
