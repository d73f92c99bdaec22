package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeNotAssigned is used when an employee holds no slot on an item
	ErrCodeNotAssigned = "ERR_NOT_ASSIGNED"
	// ErrCodeEmployeeInactive is used when a target employee is deactivated
	ErrCodeEmployeeInactive = "ERR_EMPLOYEE_INACTIVE"
)

// Dependency error codes
const (
	// ErrCodeDependencyFailed is used when a downstream call failed
	ErrCodeDependencyFailed = "ERR_DEPENDENCY_FAILED"
	// ErrCodeStorageUnavailable is used when object storage rejects an operation
	ErrCodeStorageUnavailable = "ERR_STORAGE_UNAVAILABLE"
	// ErrCodeLabelGeneration is used when the box label batch cannot be produced
	ErrCodeLabelGeneration = "ERR_LABEL_GENERATION"
	// ErrCodeUploadFailed is used when storing an uploaded file fails
	ErrCodeUploadFailed = "ERR_UPLOAD_FAILED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// An unassigned source employee means the assignment does not exist
	ErrCodeNotAssigned: http.StatusNotFound,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:     http.StatusUnprocessableEntity,
	ErrCodeEmployeeInactive: http.StatusUnprocessableEntity,

	// Dependency errors -> 502 Bad Gateway
	ErrCodeDependencyFailed:   http.StatusBadGateway,
	ErrCodeStorageUnavailable: http.StatusBadGateway,
	ErrCodeLabelGeneration:    http.StatusBadGateway,
	ErrCodeUploadFailed:       http.StatusBadGateway,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the wire format
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT":    ErrCodeConcurrencyConflict,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"INVALID_CODE":            ErrCodeInvalidInput,
	"INVALID_NAME":            ErrCodeInvalidInput,
	"INVALID_UNIT":            ErrCodeInvalidInput,
	"INVALID_PRICE":           ErrCodeInvalidInput,
	"INVALID_ITEM":            ErrCodeInvalidInput,
	"INVALID_ITEM_NO":         ErrCodeInvalidInput,
	"INVALID_QUANTITY":        ErrCodeInvalidInput,
	"INVALID_EMPLOYEE":        ErrCodeInvalidInput,
	"INVALID_EMPLOYEE_CODE":   ErrCodeInvalidInput,
	"INVALID_EMPLOYEE_NAME":   ErrCodeInvalidInput,
	"INVALID_TRANSFER":        ErrCodeInvalidInput,
	"NOT_ASSIGNED":            ErrCodeNotAssigned,
	"EMPLOYEE_INACTIVE":       ErrCodeEmployeeInactive,
	"DEPENDENCY_FAILED":       ErrCodeDependencyFailed,
	"STORAGE_UNAVAILABLE":     ErrCodeStorageUnavailable,
	"LABEL_GENERATION_FAILED": ErrCodeLabelGeneration,
	"UPLOAD_FAILED":           ErrCodeUploadFailed,
	"BAD_REQUEST":             ErrCodeBadRequest,
	"INTERNAL_ERROR":          ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Unknown codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	return code
}
