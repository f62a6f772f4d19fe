package media

import "fmt"

// ProbeError reports a failed metadata probe.
type ProbeError struct {
	Op      string
	Err     error
	Message string
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

func newProbeError(op string, err error, message string) *ProbeError {
	return &ProbeError{Op: op, Err: err, Message: message}
}

// TranscodeError reports a failed extraction. The gateway guarantees no
// partial output file survives when one is returned.
type TranscodeError struct {
	Op      string
	Err     error
	Message string
}

func (e *TranscodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

func newTranscodeError(op string, err error, message string) *TranscodeError {
	return &TranscodeError{Op: op, Err: err, Message: message}
}
