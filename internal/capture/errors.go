package capture

import "fmt"

// SetupError means the capture session could not be configured: no
// camera device, or the device input could not be created. It is fatal to
// the session.
type SetupError struct {
	Reason string
	Err    error
}

func (e *SetupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capture setup: %s: %v", e.Reason, e.Err)
	}
	return "capture setup: " + e.Reason
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
