package studyapi

import (
	"errors"
	"fmt"
)

// ErrNoData is the cause recorded when a successful response carries no data.
var ErrNoData = errors.New("response carried no data")

// RequestError reports a failed call to the backend: a transport failure, an
// unreadable body, a non-2xx status or a response without the success flag.
// Message is the server-supplied text when there is one, otherwise a generic
// per-operation fallback.
type RequestError struct {
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Detail is the diagnostic form of the error, including status and cause.
func (e *RequestError) Detail() string {
	detail := fmt.Sprintf("%s: %s", e.Op, e.Message)
	if e.Status != 0 {
		detail = fmt.Sprintf("%s (status %d)", detail, e.Status)
	}
	if e.Code != "" {
		detail = fmt.Sprintf("%s [%s]", detail, e.Code)
	}
	if e.Err != nil {
		detail = fmt.Sprintf("%s: %v", detail, e.Err)
	}
	return detail
}
