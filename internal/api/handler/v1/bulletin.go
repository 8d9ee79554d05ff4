package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ortiurbani/orti-api/internal/api/handler/v1/request"
	"github.com/ortiurbani/orti-api/internal/api/handler/v1/response"
	"github.com/ortiurbani/orti-api/internal/domain"
	"github.com/ortiurbani/orti-api/internal/i18n"
)

type NoticeService interface {
	Publish(ctx context.Context, authorID uint, n domain.Notice) (domain.Notice, error)
	Get(ctx context.Context, id uint) (domain.Notice, error)
	List(ctx context.Context, gardenID uint) ([]domain.Notice, error)
	Delete(ctx context.Context, principal domain.Principal, id uint) error
}

type NoticeHandler struct {
	svc NoticeService
}

func NewNoticeHandler(svc NoticeService) *NoticeHandler {
	return &NoticeHandler{
		svc: svc,
	}
}

// HandlePublishNotice godoc
// @Summary      Publish a notice
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        request  body       request.NoticeRequest true "request body"
// @Success      201      {object}   domain.Notice
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /avvisi [post]
// @Security BearerAuth
func (h *NoticeHandler) HandlePublishNotice(ctx *gin.Context) {
	principal, ok := getPrincipal(ctx)
	if !ok {
		return
	}

	var req request.NoticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	n, err := h.svc.Publish(ctx.Request.Context(), principal.UserID, req.Notice())
	if err != nil {
		renderServiceErr(ctx, "v1.HandlePublishNotice -> h.svc.Publish", "notice", "", err)
		return
	}

	ctx.JSON(http.StatusCreated, n)
}

// HandleListNotices godoc
// @Summary      List notices, newest first
// @Tags         notices
// @Produce      json
// @Param        orto_id  query      int  false  "only notices of this garden"
// @Success      200      {array}    domain.Notice
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /avvisi [get]
// @Security BearerAuth
func (h *NoticeHandler) HandleListNotices(ctx *gin.Context) {
	gardenID, ok := queryID(ctx, "orto_id")
	if !ok {
		return
	}

	ns, err := h.svc.List(ctx.Request.Context(), gardenID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListNotices -> h.svc.List", "notice", "", err)
		return
	}

	ctx.JSON(http.StatusOK, ns)
}

// HandleGetNotice godoc
// @Summary      Get a notice
// @Tags         notices
// @Produce      json
// @Param        id       path       int  true  "notice ID"
// @Success      200      {object}   domain.Notice
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /avvisi/{id} [get]
// @Security BearerAuth
func (h *NoticeHandler) HandleGetNotice(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "notice")
	if !ok {
		return
	}

	n, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetNotice -> h.svc.Get", "notice", id, err)
		return
	}

	ctx.JSON(http.StatusOK, n)
}

// HandleDeleteNotice godoc
// @Summary      Delete a notice
// @Description  Allowed to the author and to municipality administrators.
// @Tags         notices
// @Produce      json
// @Param        id       path       int  true  "notice ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /avvisi/{id} [delete]
// @Security BearerAuth
func (h *NoticeHandler) HandleDeleteNotice(ctx *gin.Context) {
	principal, ok := getPrincipal(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id", "notice")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), principal, id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteNotice -> h.svc.Delete", "notice", id, err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: i18n.T(ctx, i18n.MsgDeleted, "avviso")})
}

type TenderService interface {
	Create(ctx context.Context, t domain.Tender) (domain.Tender, error)
	Get(ctx context.Context, id uint) (domain.Tender, error)
	List(ctx context.Context, openOnly bool) ([]domain.Tender, error)
	Update(ctx context.Context, t domain.Tender) (domain.Tender, error)
	Delete(ctx context.Context, id uint) error
}

type TenderHandler struct {
	svc TenderService
}

func NewTenderHandler(svc TenderService) *TenderHandler {
	return &TenderHandler{
		svc: svc,
	}
}

// HandleCreateTender godoc
// @Summary      Create a tender
// @Tags         tenders
// @Accept       json
// @Produce      json
// @Param        request  body       request.TenderRequest true "request body"
// @Success      201      {object}   domain.Tender
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /bandi [post]
// @Security BearerAuth
func (h *TenderHandler) HandleCreateTender(ctx *gin.Context) {
	var req request.TenderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}
	tender, err := req.Tender(0)
	if err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), tender)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateTender -> h.svc.Create", "tender", "", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListTenders godoc
// @Summary      List tenders
// @Tags         tenders
// @Produce      json
// @Param        aperti   query      bool  false  "only tenders open today"
// @Success      200      {array}    domain.Tender
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /bandi [get]
// @Security BearerAuth
func (h *TenderHandler) HandleListTenders(ctx *gin.Context) {
	openOnly := false
	if v := ctx.Query("aperti"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		openOnly = b
	}

	ts, err := h.svc.List(ctx.Request.Context(), openOnly)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListTenders -> h.svc.List", "tender", "", err)
		return
	}

	ctx.JSON(http.StatusOK, ts)
}

// HandleGetTender godoc
// @Summary      Get a tender
// @Tags         tenders
// @Produce      json
// @Param        id       path       int  true  "tender ID"
// @Success      200      {object}   domain.Tender
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /bandi/{id} [get]
// @Security BearerAuth
func (h *TenderHandler) HandleGetTender(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "tender")
	if !ok {
		return
	}

	t, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetTender -> h.svc.Get", "tender", id, err)
		return
	}

	ctx.JSON(http.StatusOK, t)
}

// HandleUpdateTender godoc
// @Summary      Update a tender
// @Tags         tenders
// @Accept       json
// @Produce      json
// @Param        id       path       int  true  "tender ID"
// @Param        request  body       request.TenderRequest true "request body"
// @Success      200      {object}   domain.Tender
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /bandi/{id} [put]
// @Security BearerAuth
func (h *TenderHandler) HandleUpdateTender(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "tender")
	if !ok {
		return
	}

	var req request.TenderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}
	tender, err := req.Tender(id)
	if err != nil {
		response.RenderErr(ctx, response.ErrValidation(err))
		return
	}

	updated, err := h.svc.Update(ctx.Request.Context(), tender)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateTender -> h.svc.Update", "tender", id, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteTender godoc
// @Summary      Delete a tender
// @Tags         tenders
// @Produce      json
// @Param        id       path       int  true  "tender ID"
// @Success      200      {object}   response.MessageResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /bandi/{id} [delete]
// @Security BearerAuth
func (h *TenderHandler) HandleDeleteTender(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "tender")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteTender -> h.svc.Delete", "tender", id, err)
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: i18n.T(ctx, i18n.MsgDeleted, "bando")})
}
