package allu

import (
	"errors"
	"fmt"
)

var ErrAllu = errors.New("allu request failed")

// ResponseError is a non-2xx answer from Allu.
type ResponseError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("allu %s %s: http %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *ResponseError) Unwrap() error { return ErrAllu }
