package dto

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// ErrorCodeAuth covers missing, malformed or expired credentials
	ErrorCodeAuth ErrorCode = "AUTH"
	// ErrorCodeForbidden covers authenticated principals with an insufficient role
	ErrorCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrorCodeValidation covers malformed or semantically invalid input
	ErrorCodeValidation ErrorCode = "VALIDATION"
	// ErrorCodeNotFound covers lookups of absent resources
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrorCodeInternal covers unexpected server-side failures
	ErrorCodeInternal ErrorCode = "INTERNAL"
)

// ErrorResponse is the error envelope every non-2xx response carries
type ErrorResponse struct {
	Code      ErrorCode   `json:"code" example:"VALIDATION"`
	Message   string      `json:"message" example:"application_status must be one of: Exploring, Shortlisting, Applying, Submitted"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"requestId,omitempty" example:"a2f1c9d4-7a31-4a0e-9a34-6c1f6f0f2b11"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// WithDetails adds additional details to the error
func (e *ErrorResponse) WithDetails(details interface{}) *ErrorResponse {
	e.Details = details
	return e
}

// WithRequestID stamps the request correlation id on the error
func (e *ErrorResponse) WithRequestID(id string) *ErrorResponse {
	e.RequestID = id
	return e
}

// FieldErrors collects field-level validation messages keyed by field name
type FieldErrors map[string]string

// Add records a validation message for a field, keeping the first one per field
func (f FieldErrors) Add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// HasErrors checks if any field failed validation
func (f FieldErrors) HasErrors() bool {
	return len(f) > 0
}
