package export

import "fmt"

// Error reports a failure while producing an export document.
type Error struct {
	Format  Format
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export %s: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("export %s: %s", e.Format, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
