package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/faculty"
	"github.com/trezcool/academia/core/payment"
	"github.com/trezcool/academia/core/registration"
	"github.com/trezcool/academia/core/student"
)

// errStatusCodes maps domain sentinel errors onto HTTP status codes. Anything
// not listed here and not a validation error is a 500.
var errStatusCodes = map[error]int{
	catalog.ErrNotFound:            http.StatusNotFound,
	registration.ErrNotFound:       http.StatusNotFound,
	student.ErrNotFound:            http.StatusNotFound,
	faculty.ErrNotFound:            http.StatusNotFound,
	payment.ErrUnknownOrder:        http.StatusNotFound,
	registration.ErrConflict:       http.StatusConflict,
	payment.ErrDuplicateAttempt:    http.StatusConflict,
	registration.ErrIneligible:     http.StatusForbidden,
	registration.ErrBadGrade:       http.StatusBadRequest,
	student.ErrEmailExists:         http.StatusBadRequest,
	payment.ErrFeeNotConfigured:    http.StatusUnprocessableEntity,
	payment.ErrVerificationFailed:  http.StatusPaymentRequired,
	payment.ErrOrderCreation:       http.StatusBadGateway,
	payment.ErrProviderUnavailable: http.StatusBadGateway,
}

func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, shutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var (
			code = http.StatusInternalServerError
			body interface{}
		)

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			body = echo.Map{"error": origErr.Message}

		case validator.ValidationErrors:
			code = http.StatusBadRequest
			body = echo.Map{"error": "validation error", "fields": origErr.Translate(translator)}

		case *core.ValidationError:
			code = http.StatusBadRequest
			body = echo.Map{"error": "validation error", "fields": origErr.Fields}

		default:
			if sc, ok := errStatusCodes[cause]; ok {
				code = sc
				body = echo.Map{"error": cause.Error()}
				break
			}
			logger.Error("unhandled API error", err)
			body = echo.Map{"error": http.StatusText(code)}
		}

		var respErr error
		if ctx.Request().Method == http.MethodHead {
			respErr = ctx.NoContent(code)
		} else {
			respErr = ctx.JSON(code, body)
		}
		if respErr != nil {
			logger.Error("could not send error response", respErr)
		}

		if core.IsShutdown(err) {
			shutdown()
		}
	}
}
