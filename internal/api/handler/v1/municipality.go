package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ortiurbani/orti-api/internal/api/handler/v1/request"
	"github.com/ortiurbani/orti-api/internal/api/handler/v1/response"
	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/i18n"
)

type MunicipalityService interface {
	Create(ctx context.Context, m domain.Municipality) (domain.Municipality, error)
	Get(ctx context.Context, id uint) (domain.Municipality, error)
	List(ctx context.Context) ([]domain.Municipality, error)
	Update(ctx context.Context, m domain.Municipality) (domain.Municipality, error)
	Delete(ctx context.Context, id uint) error
}

type MunicipalityHandler struct {
	svc MunicipalityService
}

func NewMunicipalityHandler(svc MunicipalityService) *MunicipalityHandler {
	return &MunicipalityHandler{
		svc: svc,
	}
}

// HandleCreateMunicipality godoc
// @Summary      Create a municipality
// @Tags         municipalities
// @Accept       json
// @Produce      json
// @Param        request  body       request.MunicipalityRequest true "request body"
// @Success      201      {object}   domain.Municipality
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /comuni [post]
// @Security BearerAuth
func (h *MunicipalityHandler) HandleCreateMunicipality(ctx *gin.Context) {
	var req request.MunicipalityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	m, err := h.svc.Create(ctx.Request.Context(), req.Municipality(0))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateMunicipality -> h.svc.Create", "municipality", req.Name, err)
		return
	}

	ctx.JSON(http.StatusCreated, m)
}

// HandleListMunicipalities godoc
// @Summary      List municipalities
// @Tags         municipalities
// @Produce      json
// @Success      200      {array}    domain.Municipality
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /comuni [get]
// @Security BearerAuth
func (h *MunicipalityHandler) HandleListMunicipalities(ctx *gin.Context) {
	ms, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListMunicipalities -> h.svc.List", "municipality", "", err)
		return
	}

	ctx.JSON(http.StatusOK, ms)
}

// HandleGetMunicipality godoc
// @Summary      Get a municipality
// @Tags         municipalities
// @Produce      json
// @Param        id       path       int  true  "municipality ID"
// @Success      200      {object}   domain.Municipality
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /comuni/{id} [get]
// @Security BearerAuth
func (h *MunicipalityHandler) HandleGetMunicipality(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "municipality")
	if !ok {
		return
	}

	m, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetMunicipality -> h.svc.Get", "municipality", id, err)
		return
	}

	ctx.JSON(http.StatusOK, m)
}

// HandleUpdateMunicipality godoc
// @Summary      Update a municipality
// @Tags         municipalities
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "municipality ID"
// @Param        request  body       request.MunicipalityRequest true "request body"
// @Success      200      {object}   domain.Municipality
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /comuni/{id} [put]
// @Security BearerAuth
func (h *MunicipalityHandler) HandleUpdateMunicipality(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "municipality")
	if !ok {
		return
	}

	var req request.MunicipalityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	m, err := h.svc.Update(ctx.Request.Context(), req.Municipality(id))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateMunicipality -> h.svc.Update", "municipality", id, err)
		return
	}

	ctx.JSON(http.StatusOK, m)
}

// HandleDeleteMunicipality godoc
// @Summary      Delete an unused municipality
// @Tags         municipalities
// @Produce      json
// @Param        id       path       int  true  "municipality ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /comuni/{id} [delete]
// @Security BearerAuth
func (h *MunicipalityHandler) HandleDeleteMunicipality(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "municipality")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteMunicipality -> h.svc.Delete", "municipality", id, err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: i18n.T(ctx, i18n.MsgDeleted, "comune")})
}
