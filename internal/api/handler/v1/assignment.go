package v1

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ortiurbani/orti-api/internal/api/handler/v1/request"
	"github.com/ortiurbani/orti-api/internal/api/handler/v1/response"
	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/export"
	"github.com/ortiurbani/orti-api/internal/i18n"
	"github.com/ortiurbani/orti-api/internal/service"
)

const exportFilename = "affidamenti_lotti.xlsx"

type GardenAssignmentService interface {
	Create(ctx context.Context, a domain.GardenAssignment) (domain.GardenAssignment, error)
	Get(ctx context.Context, id uint) (domain.GardenAssignment, error)
	List(ctx context.Context, associationID uint) ([]domain.GardenAssignment, error)
	Delete(ctx context.Context, id uint) error
}

type GardenAssignmentHandler struct {
	svc GardenAssignmentService
}

func NewGardenAssignmentHandler(svc GardenAssignmentService) *GardenAssignmentHandler {
	return &GardenAssignmentHandler{
		svc: svc,
	}
}

// HandleCreateGardenAssignment godoc
// @Summary      Assign a garden to an association
// @Tags         garden-assignments
// @Accept       json
// @Produce      json
// @Param        request  body       request.GardenAssignmentRequest true "request body"
// @Success      201      {object}   domain.GardenAssignment
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaOrti [post]
// @Security BearerAuth
func (h *GardenAssignmentHandler) HandleCreateGardenAssignment(ctx *gin.Context) {
	var req request.GardenAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}
	assignment, err := req.GardenAssignment()
	if err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), assignment)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateGardenAssignment -> h.svc.Create", "garden assignment", "", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListGardenAssignments godoc
// @Summary      List garden assignments
// @Tags         garden-assignments
// @Produce      json
// @Param        associazione_id  query  int  false  "only assignments of this association"
// @Success      200      {array}    domain.GardenAssignment
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaOrti [get]
// @Security BearerAuth
func (h *GardenAssignmentHandler) HandleListGardenAssignments(ctx *gin.Context) {
	associationID, ok := queryID(ctx, "associazione_id")
	if !ok {
		return
	}

	as, err := h.svc.List(ctx.Request.Context(), associationID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListGardenAssignments -> h.svc.List", "garden assignment", "", err)
		return
	}

	ctx.JSON(http.StatusOK, as)
}

// HandleGetGardenAssignment godoc
// @Summary      Get a garden assignment
// @Tags         garden-assignments
// @Produce      json
// @Param        id       path       int  true  "garden assignment ID"
// @Success      200      {object}   domain.GardenAssignment
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaOrti/{id} [get]
// @Security BearerAuth
func (h *GardenAssignmentHandler) HandleGetGardenAssignment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "garden assignment")
	if !ok {
		return
	}

	a, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetGardenAssignment -> h.svc.Get", "garden assignment", id, err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}

// HandleDeleteGardenAssignment godoc
// @Summary      Remove a garden assignment
// @Tags         garden-assignments
// @Produce      json
// @Param        id       path       int  true  "garden assignment ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaOrti/{id} [delete]
// @Security BearerAuth
func (h *GardenAssignmentHandler) HandleDeleteGardenAssignment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "garden assignment")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteGardenAssignment -> h.svc.Delete", "garden assignment", id, err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: i18n.T(ctx, i18n.MsgDeleted, "affidamento")})
}

type PlotAssignmentService interface {
	Request(ctx context.Context, userID, plotID uint, crops []string) (domain.PlotAssignment, error)
	Get(ctx context.Context, id uint) (domain.PlotAssignment, error)
	List(ctx context.Context, filter service.PlotAssignmentFilter) ([]domain.PlotAssignment, error)
	Manage(ctx context.Context, id uint, action domain.Action) (domain.PlotAssignment, error)
	UpdateCrops(ctx context.Context, id uint, crops []string) (domain.PlotAssignment, error)
	Delete(ctx context.Context, id uint) error
	Export(ctx context.Context, w io.Writer) error
}

type PlotAssignmentHandler struct {
	svc PlotAssignmentService
}

func NewPlotAssignmentHandler(svc PlotAssignmentService) *PlotAssignmentHandler {
	return &PlotAssignmentHandler{
		svc: svc,
	}
}

// HandleRequestPlot godoc
// @Summary      Request a plot
// @Description  Creates a pending plot assignment for the authenticated citizen.
// @Tags         plot-assignments
// @Accept       json
// @Produce      json
// @Param        request  body       request.PlotAssignmentRequest true "request body"
// @Success      201      {object}   domain.PlotAssignment
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaLotti [post]
// @Security BearerAuth
func (h *PlotAssignmentHandler) HandleRequestPlot(ctx *gin.Context) {
	principal, ok := getPrincipal(ctx)
	if !ok {
		return
	}

	var req request.PlotAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	a, err := h.svc.Request(ctx.Request.Context(), principal.UserID, req.PlotID, req.Crops)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRequestPlot -> h.svc.Request", "plot", req.PlotID, err)
		return
	}

	ctx.JSON(http.StatusCreated, a)
}

// HandleListPlotAssignments godoc
// @Summary      List plot assignments
// @Tags         plot-assignments
// @Produce      json
// @Param        stato     query     string  false  "in_attesa, accettato or rifiutato"
// @Param        lotto_id  query     int     false  "only assignments of this plot"
// @Success      200      {array}    domain.PlotAssignment
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaLotti [get]
// @Security BearerAuth
func (h *PlotAssignmentHandler) HandleListPlotAssignments(ctx *gin.Context) {
	plotID, ok := queryID(ctx, "lotto_id")
	if !ok {
		return
	}

	filter := service.PlotAssignmentFilter{PlotID: plotID}
	if v := ctx.Query("stato"); v != "" {
		status := domain.AssignmentStatus(v)
		if !status.Valid() {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid stato %q", v)))
			return
		}
		filter.Status = status
	}

	as, err := h.svc.List(ctx.Request.Context(), filter)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPlotAssignments -> h.svc.List", "plot assignment", "", err)
		return
	}

	ctx.JSON(http.StatusOK, as)
}

// HandleListMyPlotAssignments godoc
// @Summary      List the plot assignments of the authenticated user
// @Tags         plot-assignments
// @Produce      json
// @Success      200      {array}    domain.PlotAssignment
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaLotti/miei [get]
// @Security BearerAuth
func (h *PlotAssignmentHandler) HandleListMyPlotAssignments(ctx *gin.Context) {
	principal, ok := getPrincipal(ctx)
	if !ok {
		return
	}

	as, err := h.svc.List(ctx.Request.Context(), service.PlotAssignmentFilter{UserID: principal.UserID})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListMyPlotAssignments -> h.svc.List", "plot assignment", "", err)
		return
	}

	ctx.JSON(http.StatusOK, as)
}

// HandleExportPlotAssignments godoc
// @Summary      Export every plot assignment as a spreadsheet
// @Tags         plot-assignments
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200      {file}     file
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaLotti/export [get]
// @Security BearerAuth
func (h *PlotAssignmentHandler) HandleExportPlotAssignments(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Export(ctx.Request.Context(), &buf); err != nil {
		err = fmt.Errorf("v1.HandleExportPlotAssignments -> h.svc.Export -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	ctx.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// HandleGetPlotAssignment godoc
// @Summary      Get a plot assignment
// @Tags         plot-assignments
// @Produce      json
// @Param        id       path       int  true  "plot assignment ID"
// @Success      200      {object}   domain.PlotAssignment
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaLotti/{id} [get]
// @Security BearerAuth
func (h *PlotAssignmentHandler) HandleGetPlotAssignment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "plot assignment")
	if !ok {
		return
	}

	a, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetPlotAssignment -> h.svc.Get", "plot assignment", id, err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}

// HandleManagePlotAssignment godoc
// @Summary      Accept or reject a pending plot assignment
// @Description  Accepting sets the period to one year from now. Only pending assignments can change.
// @Tags         plot-assignments
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "plot assignment ID"
// @Param        request  body       request.ManagePlotAssignmentRequest true "request body"
// @Success      200      {object}   domain.PlotAssignment
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaLotti/{id}/gestisci [put]
// @Security BearerAuth
func (h *PlotAssignmentHandler) HandleManagePlotAssignment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "plot assignment")
	if !ok {
		return
	}

	var req request.ManagePlotAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	a, err := h.svc.Manage(ctx.Request.Context(), id, domain.Action(req.Action))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleManagePlotAssignment -> h.svc.Manage", "plot assignment", id, err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}

// HandleUpdatePlotAssignment godoc
// @Summary      Replace the crops of a plot assignment
// @Tags         plot-assignments
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "plot assignment ID"
// @Param        request  body       request.UpdateCropsRequest true "request body"
// @Success      200      {object}   domain.PlotAssignment
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaLotti/{id} [put]
// @Security BearerAuth
func (h *PlotAssignmentHandler) HandleUpdatePlotAssignment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "plot assignment")
	if !ok {
		return
	}

	var req request.UpdateCropsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	a, err := h.svc.UpdateCrops(ctx.Request.Context(), id, req.Crops)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdatePlotAssignment -> h.svc.UpdateCrops", "plot assignment", id, err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}

// HandleDeletePlotAssignment godoc
// @Summary      Delete a plot assignment
// @Tags         plot-assignments
// @Produce      json
// @Param        id       path       int  true  "plot assignment ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /affidaLotti/{id} [delete]
// @Security BearerAuth
func (h *PlotAssignmentHandler) HandleDeletePlotAssignment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "plot assignment")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeletePlotAssignment -> h.svc.Delete", "plot assignment", id, err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: i18n.T(ctx, i18n.MsgDeleted, "affidamento")})
}
