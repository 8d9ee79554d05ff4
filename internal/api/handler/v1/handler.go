package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ortiurbani/orti-api/internal/api/handler/v1/response"
	"github.com/ortiurbani/orti-api/internal/api/middleware"
	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/i18n"
	"github.com/ortiurbani/orti-api/internal/service"
)

// HandleHealthcheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200      {object}   response.MessageResponse
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.MessageResponse{
		Message: i18n.T(ctx, i18n.MsgHealthy),
	})
}

// parseID reads a numeric path parameter. It renders the error itself and
// reports false when the parameter is not a valid ID.
func parseID(ctx *gin.Context, param, resource string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil || id == 0 {
		if err == nil {
			err = errors.New("must be positive")
		}
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %s ID: %w", resource, err)))
		return 0, false
	}

	return uint(id), true
}

// queryID reads an optional numeric query parameter; zero means absent.
func queryID(ctx *gin.Context, key string) (uint, bool) {
	v := ctx.Query(key)
	if v == "" {
		return 0, true
	}

	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %s: %w", key, err)))
		return 0, false
	}

	return uint(id), true
}

func getPrincipal(ctx *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.Principal(ctx)
	if !ok || p == nil {
		response.RenderErr(ctx, response.ErrUnauthenticated(domain.ErrUnauthenticated))
		return domain.Principal{}, false
	}

	return *p, true
}

// renderServiceErr maps a service error to its response. op names the
// failing call for the server log.
func renderServiceErr(ctx *gin.Context, op, resource string, id any, err error) {
	switch {
	case errors.Is(err, service.ErrCascadeFailed):
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	case errors.Is(err, domain.ErrUnauthenticated):
		response.RenderErr(ctx, response.ErrUnauthenticated(err))
	case errors.Is(err, domain.ErrForbiddenAdmin):
		response.RenderErr(ctx, response.ErrAdminRequired(err))
	case errors.Is(err, domain.ErrForbiddenRole):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrNotFound), errors.Is(err, domain.ErrNotFound):
		response.RenderErr(ctx, response.ErrNotFound(resource, "id", id))
	case errors.Is(err, service.ErrDuplicate):
		response.RenderErr(ctx, response.ErrDuplicate(resource, err))
	case errors.Is(err, domain.ErrValidation):
		response.RenderErr(ctx, response.ErrValidation(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}
