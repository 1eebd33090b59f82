package errors

import (
	"errors"

	"github.com/labstack/echo/v4"
)

func CustomHTTPErrorHandler(err error, c echo.Context) {
	e := HttpError{}
	if errors.As(err, &e) {
		c.Echo().DefaultHTTPErrorHandler(echo.NewHTTPError(e.Code, err.Error()), c)
		return
	}

	// Surface validation errors from request binding as bad requests
	// instead of leaking them as internal server errors.
	var bindErr *echo.BindingError
	if errors.As(err, &bindErr) {
		c.Echo().DefaultHTTPErrorHandler(echo.NewHTTPError(BadRequest.Code, bindErr.Error()), c)
		return
	}
	c.Echo().DefaultHTTPErrorHandler(err, c)
}
