package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anonto42/chirp/backend/internal/apperror"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HTTPErrorHandler writes every failure as {"message": "..."}. Internal
// details are logged and never sent to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *apperror.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = apperror.Status(appErr.Kind)
		message = appErr.Message
	case errors.As(err, &httpErr):
		status = httpErr.Code
		message = http.StatusText(status)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	}

	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, echo.Map{"message": message})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// trimmer is implemented by requests that normalize whitespace before validation
type trimmer interface {
	Trim()
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.InvalidInput("Invalid request payload")
	}
	if t, ok := req.(trimmer); ok {
		t.Trim()
	}
	return c.Validate(req)
}

func objectIDParam(c echo.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperror.InvalidInput(fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

func uintParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.InvalidInput(fmt.Sprintf("Invalid %s", name))
	}
	return uint(id), nil
}
