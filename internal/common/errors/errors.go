// Package errors provides standardized error handling for the recommendation pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input errors. Unparseable budget text never fails the request; it is
	// recorded in diagnostics and a default range is used instead.
	ErrCodeBudgetUnparseable ErrorCode = "BUDGET_UNPARSEABLE"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"

	// Detector errors. A failing detector is omitted from fusion.
	ErrCodeDetectorFailed ErrorCode = "DETECTOR_FAILED"

	// Inventory errors. The only request-level failure kind.
	ErrCodeInventoryUnreachable ErrorCode = "INVENTORY_UNREACHABLE"
	ErrCodeInventoryQueryFailed ErrorCode = "INVENTORY_QUERY_FAILED"

	// Oracle errors. Always resolved by the batch-local fallback path.
	ErrCodeOracleTimeout         ErrorCode = "ORACLE_TIMEOUT"
	ErrCodeOracleCallFailed      ErrorCode = "ORACLE_CALL_FAILED"
	ErrCodeOracleResponseInvalid ErrorCode = "ORACLE_RESPONSE_INVALID"

	// Data absence. Treated as zero information, never as a fault.
	ErrCodeReviewDataAbsent ErrorCode = "REVIEW_DATA_ABSENT"
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
// 2. Error Constructors
// ==========================

// NewBudgetUnparseableError records that no budget could be extracted from text.
func NewBudgetUnparseableError(text string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBudgetUnparseable,
		Message:   "No budget magnitude detected in input text",
		Details:   text,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInventoryUnreachableError creates a retryable request-level failure.
func NewInventoryUnreachableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInventoryUnreachable,
		Message:   "Inventory store unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInventoryQueryFailedError creates a retryable inventory error.
func NewInventoryQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInventoryQueryFailed,
		Message:   "Inventory query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOracleTimeoutError marks an oracle call that exceeded its deadline.
func NewOracleTimeoutError(batch int) *StandardError {
	return &StandardError{
		Code:      ErrCodeOracleTimeout,
		Message:   "Scoring oracle call timed out",
		Details:   fmt.Sprintf("batch: %d", batch),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOracleCallFailedError marks a failed oracle transport call.
func NewOracleCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOracleCallFailed,
		Message:   "Scoring oracle call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOracleResponseInvalidError marks a non-conforming oracle response.
// Treated identically to a failed call by the reranker.
func NewOracleResponseInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOracleResponseInvalid,
		Message:   "Scoring oracle response failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// IsRequestLevel reports whether err must surface to the end caller rather
// than degrade into diagnostics.
func IsRequestLevel(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code == ErrCodeInventoryUnreachable
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or UNKNOWN when it carries none.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return "UNKNOWN"
}
