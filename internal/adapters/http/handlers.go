package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/desk/internal/application/services"
	"github.com/taskmaster/desk/internal/calc"
	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/logger"
	"github.com/taskmaster/desk/internal/ports"
)

// CustomValidator plugs the service validator into echo
type CustomValidator struct{}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return services.Validate(i)
}

// ErrorStatus maps a service error to the HTTP status it is reported with
func ErrorStatus(err error) int {
	var (
		he      *echo.HTTPError
		verr    *entities.ValidationError
		calcErr *calc.Error
	)

	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.As(err, &verr), errors.As(err, &calcErr):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrInvalidFormat),
		errors.Is(err, entities.ErrInvalidChoice),
		errors.Is(err, entities.ErrInvalidGSTRate):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrUnauthorized):
		return http.StatusUnauthorized
	case services.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrAmbiguousSelector):
		return http.StatusConflict
	case errors.Is(err, entities.ErrStoreLocked):
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every handler error as an ErrorResponse
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := ErrorStatus(err)
		resp := ports.ErrorResponse{Message: http.StatusText(code)}

		var (
			he      *echo.HTTPError
			verr    *entities.ValidationError
			calcErr *calc.Error
		)
		switch {
		case errors.As(err, &he):
			resp.Message = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		case errors.As(err, &verr):
			resp.Message = verr.Error()
			resp.Details = map[string]interface{}{"fields": verr.Fields}
		case errors.As(err, &calcErr):
			resp.Message = calcErr.Msg
			resp.Details = map[string]interface{}{"position": calcErr.Pos}
		case code != http.StatusInternalServerError:
			resp.Message = err.Error()
		}

		if code == http.StatusInternalServerError {
			log.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, resp)
			}
			if err != nil {
				log.Errorw("Error sending response", "error", err)
			}
		}
	}
}

// bind decodes the request body, rejecting malformed JSON with 400
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return nil
}
