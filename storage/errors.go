package storage

import "fmt"

// UploadError reports a failed object-storage upload. The bridge performs
// no retries; the caller decides what to do with the failure.
type UploadError struct {
	Op      string
	Err     error
	Message string
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func newUploadError(op string, err error, message string) *UploadError {
	return &UploadError{Op: op, Err: err, Message: message}
}
