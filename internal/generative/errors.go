package generative

import (
	"context"
	"errors"
	"fmt"
)

// ConfigurationError means the model credential is missing. No call was made.
type ConfigurationError struct {
	Provider      string
	CredentialEnv string
}

func (e *ConfigurationError) Error() string {
	if e.CredentialEnv == "" {
		return fmt.Sprintf("%s API key not configured.", e.Provider)
	}
	return fmt.Sprintf("%s API key not configured. Please set %s in the environment.", e.Provider, e.CredentialEnv)
}

// UpstreamCallError wraps a failed call to the model.
type UpstreamCallError struct {
	Err error
}

func (e *UpstreamCallError) Error() string {
	return fmt.Sprintf("An error occurred while communicating with the AI model: %v", e.Err)
}

func (e *UpstreamCallError) Unwrap() error { return e.Err }

// Timeout reports whether the call failed because its deadline passed.
func (e *UpstreamCallError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// ParseError means the model's response was not a usable report. The raw
// response is never included in the message.
type ParseError struct{}

func (e *ParseError) Error() string { return "Failed to parse AI analysis" }
