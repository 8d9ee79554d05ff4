package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ortiurbani/orti-api/internal/i18n"
)

// Err is the JSON body of every failed request.
type Err struct {
	HTTPStatusCode int    `json:"-"`
	MessageKey     string `json:"-"`
	Args           []any  `json:"-"`
	Err            error  `json:"-"`
	Message        string `json:"message"`
	Detail         string `json:"error,omitempty"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.MessageKey
	}

	return e.Err.Error()
}

func (e *Err) Unwrap() error {
	return e.Err
}

// RenderErr translates the message for the request language and aborts the
// chain. The error text goes in "error"; server errors are also logged.
func RenderErr(ctx *gin.Context, e *Err) {
	e.Message = i18n.T(ctx, e.MessageKey, e.Args...)

	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(e.Err),
		)
	}
	if e.Err != nil {
		e.Detail = e.Err.Error()
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		MessageKey:     i18n.MsgBadRequest,
		Err:            err,
	}
}

func ErrValidation(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		MessageKey:     i18n.MsgValidation,
		Err:            err,
	}
}

func ErrDuplicate(resource string, err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		MessageKey:     i18n.MsgDuplicate,
		Args:           []any{resource},
		Err:            err,
	}
}

func ErrUnauthenticated(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		MessageKey:     i18n.MsgUnauthenticated,
		Err:            err,
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		MessageKey:     i18n.MsgWrongCredentials,
		Err:            errors.New("wrong credentials"),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		MessageKey:     i18n.MsgForbiddenRole,
		Err:            err,
	}
}

func ErrAdminRequired(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		MessageKey:     i18n.MsgForbiddenAdmin,
		Err:            err,
	}
}

func ErrNotFound(resource string, key string, value any) *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		MessageKey:     i18n.MsgNotFound,
		Args:           []any{resource},
		Err:            fmt.Errorf("%s with %s %v not found", resource, key, value),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		MessageKey:     i18n.MsgInternal,
		Err:            err,
	}
}
