package util

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with a helpful suggestion
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

func (e *ErrorWithSuggestion) Error() string {
	return fmt.Sprintf("%v\nSuggestion: %s", e.Err, e.Suggestion)
}

// WrapErrorWithSuggestion creates an error with a helpful suggestion
func WrapErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetErrorSuggestion returns helpful suggestions based on common error patterns
func GetErrorSuggestion(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()

	// Engine lifecycle errors
	if strings.Contains(errStr, "failed to open engine") || strings.Contains(errStr, "open failed") {
		return "Check that the engine config path exists and the working directory is writable"
	}

	if strings.Contains(errStr, "failed to create transaction") {
		return "The engine may not support transactions, or the working directory may be out of resources. A failed transaction create aborts the run"
	}

	// Generator errors
	if strings.Contains(errStr, "window_exhausted") {
		return "The acknowledged-counter window filled up without acknowledgement; the issuing thread is outrunning the acknowledging threads"
	}

	// Workload descriptor errors
	if strings.Contains(errStr, "no such file or directory") {
		return "Check the workload descriptor or config file path and ensure the file exists"
	}

	if strings.Contains(errStr, "permission denied") {
		return "Check file permissions on the working directory or try running with appropriate privileges"
	}

	if strings.Contains(errStr, "invalid proportions") || strings.Contains(errStr, "proportions") {
		return "A workload's operation proportions must sum to more than 0 and at most 1; check the workload descriptor"
	}

	if strings.Contains(errStr, "unknown distribution") {
		return "Distribution names must be one of: const, counter, uniform, zipfian, scrambled, latest, acknowledged"
	}

	// Not-implemented
	if strings.Contains(errStr, "not implemented") || strings.Contains(errStr, "not_implemented") {
		return "The engine adapter does not implement this operation; remove it from the workload's proportions or choose a different adapter"
	}

	// Configuration errors
	if strings.Contains(errStr, "failed to load configuration") || strings.Contains(errStr, "failed to load workload") {
		return "Check if the file exists and is valid JSON. Use -workloads to specify a custom path"
	}

	// Default suggestion
	return "Check the error message above and ensure all requirements are met"
}

// FormatError formats an error with suggestions for better user experience
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	
	// Check if it already has a suggestion
	if _, ok := err.(*ErrorWithSuggestion); ok {
		return err.Error()
	}
	
	// Get automatic suggestion
	suggestion := GetErrorSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %v\n💡 Suggestion: %s", err, suggestion)
	}
	
	return fmt.Sprintf("Error: %v", err)
}