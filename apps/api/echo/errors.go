package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/club"
	"github.com/testxbusiness/csromawebapp/core/event"
	"github.com/testxbusiness/csromawebapp/core/fee"
	"github.com/testxbusiness/csromawebapp/core/message"
	"github.com/testxbusiness/csromawebapp/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "utente non autenticato")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "credenziali non valide")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account disattivato")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "sessione scaduta")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permesso negato")
)

// notFoundErrors are the domain lookup failures surfaced as HTTP 404.
var notFoundErrors = []error{
	user.ErrNotFound,
	club.ErrSeasonNotFound,
	club.ErrActivityNotFound,
	club.ErrGymNotFound,
	club.ErrTeamNotFound,
	club.ErrNoActiveSeason,
	fee.ErrNotFound,
	fee.ErrInstallmentNotFound,
	event.ErrNotFound,
	message.ErrNotFound,
}

func isNotFound(err error) bool {
	for _, nf := range notFoundErrors {
		if err == nf {
			return true
		}
	}
	return false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var body interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				body = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			body = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			body = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				body = fldErrs
			} else {
				body = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			if isNotFound(cause) {
				code = http.StatusNotFound
				body = cause.Error()
				break
			}
			// domain rejections carrying an Italian message are client errors
			if cause == fee.ErrNoPredefinedInstallments ||
				cause == event.ErrTooManyOccurrences ||
				cause == message.ErrNoRecipients {
				code = http.StatusBadRequest
				body = cause.Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			body = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.Username = claims.Username
				usr.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			body = err.Error()
		}
		if m, ok := body.(string); ok {
			body = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
