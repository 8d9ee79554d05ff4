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

type GardenService interface {
	Create(ctx context.Context, g domain.Garden) (domain.Garden, error)
	Get(ctx context.Context, id uint) (domain.Garden, error)
	List(ctx context.Context, municipalityID uint) ([]domain.Garden, error)
	Update(ctx context.Context, g domain.Garden) (domain.Garden, error)
	Delete(ctx context.Context, id uint) error
	CreatePlot(ctx context.Context, p domain.Plot) (domain.Plot, error)
	ListPlots(ctx context.Context, gardenID uint) ([]domain.Plot, error)
	GetPlot(ctx context.Context, id uint) (domain.Plot, error)
	UpdatePlot(ctx context.Context, p domain.Plot) (domain.Plot, error)
	DeletePlot(ctx context.Context, id uint) error
}

type GardenHandler struct {
	svc GardenService
}

func NewGardenHandler(svc GardenService) *GardenHandler {
	return &GardenHandler{
		svc: svc,
	}
}

// HandleCreateGarden godoc
// @Summary      Create a garden
// @Tags         gardens
// @Accept       json
// @Produce      json
// @Param        request  body       request.GardenRequest true "request body"
// @Success      201      {object}   domain.Garden
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti [post]
// @Security BearerAuth
func (h *GardenHandler) HandleCreateGarden(ctx *gin.Context) {
	var req request.GardenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	g, err := h.svc.Create(ctx.Request.Context(), req.Garden(0))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateGarden -> h.svc.Create", "garden", req.Name, err)
		return
	}

	ctx.JSON(http.StatusCreated, g)
}

// HandleListGardens godoc
// @Summary      List gardens
// @Tags         gardens
// @Produce      json
// @Param        comune_id  query    int  false  "only gardens of this municipality"
// @Success      200      {array}    domain.Garden
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti [get]
// @Security BearerAuth
func (h *GardenHandler) HandleListGardens(ctx *gin.Context) {
	municipalityID, ok := queryID(ctx, "comune_id")
	if !ok {
		return
	}

	gs, err := h.svc.List(ctx.Request.Context(), municipalityID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListGardens -> h.svc.List", "garden", "", err)
		return
	}

	ctx.JSON(http.StatusOK, gs)
}

// HandleGetGarden godoc
// @Summary      Get a garden with its plot IDs
// @Tags         gardens
// @Produce      json
// @Param        id       path       int  true  "garden ID"
// @Success      200      {object}   domain.Garden
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti/{id} [get]
// @Security BearerAuth
func (h *GardenHandler) HandleGetGarden(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "garden")
	if !ok {
		return
	}

	g, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetGarden -> h.svc.Get", "garden", id, err)
		return
	}

	ctx.JSON(http.StatusOK, g)
}

// HandleUpdateGarden godoc
// @Summary      Update a garden
// @Tags         gardens
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "garden ID"
// @Param        request  body       request.GardenRequest true "request body"
// @Success      200      {object}   domain.Garden
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti/{id} [put]
// @Security BearerAuth
func (h *GardenHandler) HandleUpdateGarden(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "garden")
	if !ok {
		return
	}

	var req request.GardenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	g, err := h.svc.Update(ctx.Request.Context(), req.Garden(id))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateGarden -> h.svc.Update", "garden", id, err)
		return
	}

	ctx.JSON(http.StatusOK, g)
}

// HandleDeleteGarden godoc
// @Summary      Delete a garden
// @Description  Removes its plots, their plot assignments, its garden assignments, sensors and weather history.
// @Tags         gardens
// @Produce      json
// @Param        id       path       int  true  "garden ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti/{id} [delete]
// @Security BearerAuth
func (h *GardenHandler) HandleDeleteGarden(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "garden")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteGarden -> h.svc.Delete", "garden", id, err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: i18n.T(ctx, i18n.MsgDeleted, "orto")})
}

// HandleCreatePlot godoc
// @Summary      Create a plot in a garden
// @Tags         plots
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "garden ID"
// @Param        request  body       request.PlotRequest true "request body"
// @Success      201      {object}   domain.Plot
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti/{id}/lotti [post]
// @Security BearerAuth
func (h *GardenHandler) HandleCreatePlot(ctx *gin.Context) {
	gardenID, ok := parseID(ctx, "id", "garden")
	if !ok {
		return
	}

	var req request.PlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	p, err := h.svc.CreatePlot(ctx.Request.Context(), req.Plot(0, gardenID))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreatePlot -> h.svc.CreatePlot", "garden", gardenID, err)
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// HandleListPlots godoc
// @Summary      List the plots of a garden
// @Tags         plots
// @Produce      json
// @Param        id       path       int  true  "garden ID"
// @Success      200      {array}    domain.Plot
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orti/{id}/lotti [get]
// @Security BearerAuth
func (h *GardenHandler) HandleListPlots(ctx *gin.Context) {
	gardenID, ok := parseID(ctx, "id", "garden")
	if !ok {
		return
	}

	ps, err := h.svc.ListPlots(ctx.Request.Context(), gardenID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPlots -> h.svc.ListPlots", "garden", gardenID, err)
		return
	}

	ctx.JSON(http.StatusOK, ps)
}

// HandleGetPlot godoc
// @Summary      Get a plot
// @Tags         plots
// @Produce      json
// @Param        id       path       int  true  "plot ID"
// @Success      200      {object}   domain.Plot
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /lotti/{id} [get]
// @Security BearerAuth
func (h *GardenHandler) HandleGetPlot(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "plot")
	if !ok {
		return
	}

	p, err := h.svc.GetPlot(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetPlot -> h.svc.GetPlot", "plot", id, err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleUpdatePlot godoc
// @Summary      Update a plot
// @Tags         plots
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "plot ID"
// @Param        request  body       request.PlotRequest true "request body"
// @Success      200      {object}   domain.Plot
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /lotti/{id} [put]
// @Security BearerAuth
func (h *GardenHandler) HandleUpdatePlot(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "plot")
	if !ok {
		return
	}

	var req request.PlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	p, err := h.svc.UpdatePlot(ctx.Request.Context(), req.Plot(id, 0))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdatePlot -> h.svc.UpdatePlot", "plot", id, err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleDeletePlot godoc
// @Summary      Delete a plot and its plot assignments
// @Tags         plots
// @Produce      json
// @Param        id       path       int  true  "plot ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /lotti/{id} [delete]
// @Security BearerAuth
func (h *GardenHandler) HandleDeletePlot(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "plot")
	if !ok {
		return
	}

	if err := h.svc.DeletePlot(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeletePlot -> h.svc.DeletePlot", "plot", id, err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: i18n.T(ctx, i18n.MsgDeleted, "lotto")})
}
