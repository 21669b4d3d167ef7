// Package services holds the statistics logic behind the statsd handlers:
// request validation and translation to the series package.
package services

// Error codes returned in ServiceError.Code.
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeEmptySeries  = "EMPTY_SERIES"
	CodeLagTooLarge  = "LAG_TOO_LARGE"
	CodeInternal     = "INTERNAL_ERROR"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
