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

type AssociationService interface {
	Create(ctx context.Context, a domain.Association) (domain.Association, error)
	Get(ctx context.Context, id uint) (domain.Association, error)
	List(ctx context.Context, municipalityID uint) ([]domain.Association, error)
	Update(ctx context.Context, principal domain.Principal, a domain.Association) (domain.Association, error)
	Delete(ctx context.Context, id uint) (domain.AssociationDeletion, error)
	AddMember(ctx context.Context, principal domain.Principal, associationID, userID uint, admin bool) (domain.User, error)
	ListMembers(ctx context.Context, principal domain.Principal, associationID uint) ([]domain.User, error)
}

type AssociationHandler struct {
	svc AssociationService
}

func NewAssociationHandler(svc AssociationService) *AssociationHandler {
	return &AssociationHandler{
		svc: svc,
	}
}

// HandleCreateAssociation godoc
// @Summary      Create an association
// @Tags         associations
// @Accept       json
// @Produce      json
// @Param        request  body       request.AssociationRequest true "request body"
// @Success      201      {object}   domain.Association
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /associazioni [post]
// @Security BearerAuth
func (h *AssociationHandler) HandleCreateAssociation(ctx *gin.Context) {
	var req request.AssociationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	a, err := h.svc.Create(ctx.Request.Context(), req.Association(0))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateAssociation -> h.svc.Create", "association", req.Name, err)
		return
	}

	ctx.JSON(http.StatusCreated, a)
}

// HandleListAssociations godoc
// @Summary      List associations
// @Tags         associations
// @Produce      json
// @Param        comune_id  query    int  false  "only associations of this municipality"
// @Success      200      {array}    domain.Association
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /associazioni [get]
// @Security BearerAuth
func (h *AssociationHandler) HandleListAssociations(ctx *gin.Context) {
	municipalityID, ok := queryID(ctx, "comune_id")
	if !ok {
		return
	}

	as, err := h.svc.List(ctx.Request.Context(), municipalityID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListAssociations -> h.svc.List", "association", "", err)
		return
	}

	ctx.JSON(http.StatusOK, as)
}

// HandleGetAssociation godoc
// @Summary      Get an association
// @Tags         associations
// @Produce      json
// @Param        id       path       int  true  "association ID"
// @Success      200      {object}   domain.Association
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /associazioni/{id} [get]
// @Security BearerAuth
func (h *AssociationHandler) HandleGetAssociation(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "association")
	if !ok {
		return
	}

	a, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetAssociation -> h.svc.Get", "association", id, err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}

// HandleUpdateAssociation godoc
// @Summary      Update an association
// @Description  Municipality members may update any association, association administrators only their own.
// @Tags         associations
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "association ID"
// @Param        request  body       request.AssociationRequest true "request body"
// @Success      200      {object}   domain.Association
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /associazioni/{id} [put]
// @Security BearerAuth
func (h *AssociationHandler) HandleUpdateAssociation(ctx *gin.Context) {
	principal, ok := getPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "association")
	if !ok {
		return
	}

	var req request.AssociationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	a, err := h.svc.Update(ctx.Request.Context(), principal, req.Association(id))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateAssociation -> h.svc.Update", "association", id, err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}

// HandleDeleteAssociation godoc
// @Summary      Delete an association
// @Description  Members become citizens, plot assignments on the gardens it manages are removed,
// @Description  its garden assignments are removed, then the association itself.
// @Tags         associations
// @Produce      json
// @Param        id       path       int  true  "association ID"
// @Success      200      {object}   response.AssociationDeletionResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /associazioni/{id} [delete]
// @Security BearerAuth
func (h *AssociationHandler) HandleDeleteAssociation(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "association")
	if !ok {
		return
	}

	result, err := h.svc.Delete(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteAssociation -> h.svc.Delete", "association", id, err)
		return
	}

	message := i18n.T(ctx, i18n.MsgAssociationDelete, result.MembersDowngraded, result.PlotAssignmentsRemoved)
	ctx.JSON(http.StatusOK, response.NewAssociationDeletionResponse(message, result))
}

// HandleAddMember godoc
// @Summary      Add a citizen to an association
// @Tags         associations
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "association ID"
// @Param        request  body       request.AddMemberRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /associazioni/{id}/membri [post]
// @Security BearerAuth
func (h *AssociationHandler) HandleAddMember(ctx *gin.Context) {
	principal, ok := getPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "association")
	if !ok {
		return
	}

	var req request.AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	user, err := h.svc.AddMember(ctx.Request.Context(), principal, id, req.UserID, req.Admin)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleAddMember -> h.svc.AddMember", "association", id, err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleListMembers godoc
// @Summary      List the members of an association
// @Tags         associations
// @Produce      json
// @Param        id       path       int  true  "association ID"
// @Success      200      {array}    domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /associazioni/{id}/membri [get]
// @Security BearerAuth
func (h *AssociationHandler) HandleListMembers(ctx *gin.Context) {
	principal, ok := getPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "association")
	if !ok {
		return
	}

	members, err := h.svc.ListMembers(ctx.Request.Context(), principal, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListMembers -> h.svc.ListMembers", "association", id, err)
		return
	}

	ctx.JSON(http.StatusOK, members)
}
