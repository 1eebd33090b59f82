package errors

import (
	"errors"
	"net/http"
)

var (
	NotFound   = HttpError{http.StatusNotFound, errors.New("not found")}
	Duplicate  = HttpError{http.StatusConflict, errors.New("duplicate")}
	BadRequest = HttpError{http.StatusBadRequest, errors.New("bad request")}
	Forbidden  = HttpError{http.StatusForbidden, errors.New("forbidden")}
)

type HttpError struct {
	Code int
	Err  error
}

func (h HttpError) Unwrap() error {
	return h.Err
}

func (h HttpError) Error() string {
	return h.Err.Error()
}

// StatusCode returns the http status of the first HttpError in the chain of err,
// or 500 when err doesn't wrap one.
func StatusCode(err error) int {
	e := HttpError{}
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}
