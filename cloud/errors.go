package cloud

import "fmt"

// Service names for adapter failures.
const (
	ServiceRecognition = "recognition"
	ServiceTranslation = "translation"
	ServiceSynthesis   = "synthesis"
	ServiceOCR         = "ocr"
)

// Error reports a failed remote AI call. Adapters never retry; the
// orchestrator maps these to the response-level error shape.
type Error struct {
	Service string
	Op      string
	Err     error
	Message string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(service, op string, err error, message string) *Error {
	return &Error{Service: service, Op: op, Err: err, Message: message}
}
