package scraper

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrorType categorizes the ways a trigger request can fail
type ErrorType string

const (
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeStatus          ErrorType = "status"
	ErrorTypeInvalidResponse ErrorType = "invalid_response"
)

// TriggerError represents a failed scrape-start request
type TriggerError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

// Error returns the human-readable description shown in the trigger widget.
// The cause is left out; see Detail.
func (e *TriggerError) Error() string {
	return e.Message
}

// Detail returns the description followed by its cause, for diagnostic logs
func (e *TriggerError) Detail() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

// Unwrap returns the underlying error for error unwrapping
func (e *TriggerError) Unwrap() error {
	return e.Cause
}

// ErrorFields returns log fields describing err, including the cause of a
// TriggerError that Error() leaves out
func ErrorFields(err error) logrus.Fields {
	fields := logrus.Fields{"error": err.Error()}
	var trigErr *TriggerError
	if errors.As(err, &trigErr) {
		fields["error_type"] = string(trigErr.Type)
		fields["detail"] = trigErr.Detail()
		if trigErr.StatusCode != 0 {
			fields["status_code"] = trigErr.StatusCode
		}
	}
	return fields
}

func newNetworkError(cause error) *TriggerError {
	return &TriggerError{
		Type:    ErrorTypeNetwork,
		Message: "Network Error",
		Cause:   cause,
	}
}

func newTimeoutError(cause error) *TriggerError {
	return &TriggerError{
		Type:    ErrorTypeTimeout,
		Message: "Request timed out",
		Cause:   cause,
	}
}

func newStatusError(code int, body string) *TriggerError {
	return &TriggerError{
		Type:       ErrorTypeStatus,
		Message:    fmt.Sprintf("Request failed with status code %d", code),
		StatusCode: code,
		Cause:      fmt.Errorf("response body: %s", body),
	}
}

func newInvalidResponseError(message string, cause error) *TriggerError {
	return &TriggerError{
		Type:    ErrorTypeInvalidResponse,
		Message: message,
		Cause:   cause,
	}
}
