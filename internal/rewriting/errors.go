package rewriting

import "fmt"

// RejectedError reports a model reply that failed the headline checks.
type RejectedError struct {
	Reply  string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected rewrite %q: %s", e.Reply, e.Reason)
}

// APICallError represents an error calling the language model
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
