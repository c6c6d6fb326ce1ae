// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeRosterFetchFailed        ErrorCode = "ROSTER_FETCH_FAILED"
	ErrCodeResultInsertFailed       ErrorCode = "RESULT_INSERT_FAILED"
	ErrCodeMergeDeleteFailed        ErrorCode = "MERGE_DELETE_FAILED"

	ErrCodeInvalidInventionInput ErrorCode = "INVALID_INVENTION_INPUT"
	ErrCodeInvalidMergeRequest   ErrorCode = "INVALID_MERGE_REQUEST"

	ErrCodeRankingFailed ErrorCode = "RANKING_FAILED"
	ErrCodeScanFailed    ErrorCode = "SCAN_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRosterFetchFailedError creates a retryable roster fetch error. The engines
// never score or scan a partial roster, so the fetch error propagates as-is.
func NewRosterFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRosterFetchFailed,
		Message:   "Failed to fetch factory roster",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResultInsertFailedError creates a retryable result persistence error.
func NewResultInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResultInsertFailed,
		Message:   "Failed to persist ranking result",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMergeDeleteFailedError creates a retryable bulk delete error.
func NewMergeDeleteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMergeDeleteFailed,
		Message:   "Failed to delete duplicate suspects",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInventionInputError creates a non-retryable input validation error.
func NewInvalidInventionInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInventionInput,
		Message:   "Invention payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidMergeRequestError creates a non-retryable merge request error.
func NewInvalidMergeRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMergeRequest,
		Message:   "Merge request failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. BPMN Mapping
// ==========================

// BPMNErrorMapping maps internal codes to the codes BPMN boundary events catch.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeDatabaseConnectionFailed: "TECHNICAL_ERROR",
	ErrCodeRosterFetchFailed:        "TECHNICAL_ERROR",
	ErrCodeResultInsertFailed:       "TECHNICAL_ERROR",
	ErrCodeMergeDeleteFailed:        "TECHNICAL_ERROR",
	ErrCodeInvalidInventionInput:    "VALIDATION_ERROR",
	ErrCodeInvalidMergeRequest:      "VALIDATION_ERROR",
	ErrCodeRankingFailed:            "RANKING_FAILED",
	ErrCodeScanFailed:               "SCAN_FAILED",
}

// GetRetryCount returns how many technical retries a code deserves.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeRosterFetchFailed,
		ErrCodeResultInsertFailed,
		ErrCodeMergeDeleteFailed:
		return 3 // Retryable technical errors

	default:
		return 0 // Validation/business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "ROSTER") || strings.Contains(codeStr, "INSERT") || strings.Contains(codeStr, "DELETE"):
		return "DATABASE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "RANKING") || strings.Contains(codeStr, "SCAN"):
		return "ENGINE"
	default:
		return "OTHER"
	}
}
