package generation

import "fmt"

// FallbackMessage is reported when a failure carries no message of its own.
const FallbackMessage = "Failed to communicate with the AI model."

// GenerationError reports a failed or unusable generation call.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return FallbackMessage
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

func newGenerationError(stage string, cause error) *GenerationError {
	if cause == nil || cause.Error() == "" {
		return &GenerationError{Cause: cause}
	}
	return &GenerationError{Message: fmt.Sprintf("%s: %v", stage, cause), Cause: cause}
}
