package constants

// Context keys set by middleware
const (
	ContextKeyRequestID = "RequestID"
	ContextKeyRawBody   = "rawBody"
)

// Request headers
const (
	HeaderRequestID = "X-Request-ID"
)
