package common

// Response statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the standard wrapper for all API responses
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a new successful API response
func NewSuccessResponse(message string) APIResponse {
	return APIResponse{
		Status:  StatusSuccess,
		Message: message,
	}
}

// NewErrorResponse creates a new error API response
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Status:  StatusError,
		Message: message,
	}
}
