package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"stocktake/internal/assets"
	"stocktake/internal/repository"
	custom_error "stocktake/pkg/errors"
	"stocktake/pkg/models"
	"stocktake/pkg/roles"
	"stocktake/pkg/security"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	service   *SessionService
	reconcile *ReconcileService
}

func NewSessionHandler(service *SessionService, reconcile *ReconcileService) *SessionHandler {
	return &SessionHandler{service: service, reconcile: reconcile}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	sessionRepo := NewSessionRepository(r)
	itemRepo := NewItemRepository(r)
	catalog := assets.NewRepository(r)

	service := NewSessionService(r, sessionRepo, itemRepo, catalog)
	reconcile := NewReconcileService(sessionRepo, itemRepo, catalog)
	handler := NewSessionHandler(service, reconcile)

	protected := router.Group("")
	protected.Use(security.JWTMiddleware())
	{
		protected.POST("/sessions", handler.StartSession)
		protected.GET("/sessions", handler.ListOwnSessions)
		protected.GET("/sessions/pending", security.Authorize(roles.Supervisor), handler.ListPendingReview)
		protected.GET("/sessions/all", security.Authorize(roles.Admin), handler.ListAllSessions)
		protected.GET("/sessions/dashboard", security.Authorize(roles.Admin), handler.Dashboard)
		protected.GET("/sessions/:id", handler.GetSessionDetail)

		protected.POST("/sessions/:id/scan", handler.Scan)
		protected.POST("/sessions/:id/confirm", handler.ManualConfirm)
		protected.POST("/sessions/:id/assets", handler.AddNewAsset)

		protected.POST("/sessions/:id/draft", handler.SaveDraft)
		protected.POST("/sessions/:id/submit", handler.Submit)
		protected.POST("/sessions/:id/approve", security.Authorize(roles.Supervisor), handler.SupervisorApprove)
		protected.POST("/sessions/:id/reject", security.Authorize(roles.Supervisor), handler.SupervisorReject)
		protected.POST("/sessions/:id/admin-approve", security.Authorize(roles.Admin), handler.AdminApprove)
		protected.POST("/sessions/:id/complete", security.Authorize(roles.Admin), handler.Complete)
		protected.POST("/sessions/:id/cancel", handler.Cancel)
		protected.POST("/sessions/:id/reopen", security.Authorize(roles.Admin), handler.Reopen)
		protected.DELETE("/sessions/:id", security.Authorize(roles.Admin), handler.Delete)
	}
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	session, err := h.service.StartSession(actor, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) GetSessionDetail(c *gin.Context) {
	actor, sessionID, ok := actorAndID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetSessionDetail(actor, sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *SessionHandler) Scan(c *gin.Context) {
	actor, sessionID, ok := actorAndID(c)
	if !ok {
		return
	}

	var req struct {
		Barcode string `json:"barcode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	result, err := h.reconcile.Scan(actor, sessionID, req.Barcode)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) ManualConfirm(c *gin.Context) {
	actor, sessionID, ok := actorAndID(c)
	if !ok {
		return
	}

	var req struct {
		Barcode string `json:"barcode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	result, err := h.reconcile.ManualConfirm(actor, sessionID, req.Barcode)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if result.Outcome == OutcomeNotFound {
		c.JSON(http.StatusNotFound, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) AddNewAsset(c *gin.Context) {
	actor, sessionID, ok := actorAndID(c)
	if !ok {
		return
	}

	var req AddAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	asset, err := h.reconcile.AddNewAsset(actor, sessionID, req)
	if err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Barcode already registered"})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *SessionHandler) SaveDraft(c *gin.Context) {
	h.transition(c, func(actor models.Actor, id int, comment *string) (*models.InventorySession, error) {
		return h.service.SaveDraft(actor, id, comment)
	})
}

func (h *SessionHandler) Submit(c *gin.Context) {
	h.transition(c, func(actor models.Actor, id int, comment *string) (*models.InventorySession, error) {
		return h.service.Submit(actor, id, comment)
	})
}

func (h *SessionHandler) SupervisorApprove(c *gin.Context) {
	h.transition(c, func(actor models.Actor, id int, _ *string) (*models.InventorySession, error) {
		return h.service.SupervisorApprove(actor, id)
	})
}

func (h *SessionHandler) SupervisorReject(c *gin.Context) {
	actor, sessionID, ok := actorAndID(c)
	if !ok {
		return
	}

	var req struct {
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "A rejection comment is required"})
		return
	}

	session, err := h.service.SupervisorReject(actor, sessionID, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) AdminApprove(c *gin.Context) {
	h.transition(c, func(actor models.Actor, id int, comment *string) (*models.InventorySession, error) {
		return h.service.AdminApprove(actor, id, comment)
	})
}

func (h *SessionHandler) Complete(c *gin.Context) {
	h.transition(c, func(actor models.Actor, id int, _ *string) (*models.InventorySession, error) {
		return h.service.Complete(actor, id)
	})
}

func (h *SessionHandler) Cancel(c *gin.Context) {
	h.transition(c, func(actor models.Actor, id int, _ *string) (*models.InventorySession, error) {
		return h.service.Cancel(actor, id)
	})
}

func (h *SessionHandler) Reopen(c *gin.Context) {
	h.transition(c, func(actor models.Actor, id int, _ *string) (*models.InventorySession, error) {
		return h.service.Reopen(actor, id)
	})
}

func (h *SessionHandler) Delete(c *gin.Context) {
	actor, sessionID, ok := actorAndID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(actor, sessionID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": sessionID})
}

func (h *SessionHandler) ListOwnSessions(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	sessions, err := h.service.ListOwnSessions(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *SessionHandler) ListPendingReview(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	sessions, err := h.service.ListPendingReview(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *SessionHandler) ListAllSessions(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	sessions, err := h.service.ListAllSessions(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *SessionHandler) Dashboard(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	counts, err := h.service.Dashboard(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

func (h *SessionHandler) transition(c *gin.Context, fn func(models.Actor, int, *string) (*models.InventorySession, error)) {
	actor, sessionID, ok := actorAndID(c)
	if !ok {
		return
	}

	// Comment is optional on most transitions.
	var req struct {
		Comment *string `json:"comment"`
	}
	_ = c.ShouldBindJSON(&req)

	session, err := fn(actor, sessionID, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func actorOrAbort(c *gin.Context) (models.Actor, bool) {
	actor, err := security.CurrentActor(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return models.Actor{}, false
	}
	return actor, true
}

func actorAndID(c *gin.Context) (models.Actor, int, bool) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return models.Actor{}, 0, false
	}

	sessionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return models.Actor{}, 0, false
	}

	return actor, sessionID, true
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
	case errors.Is(err, ErrSessionNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, ErrAssetNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
	case errors.Is(err, ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Operation not allowed in current session status"})
	case errors.Is(err, ErrCommentRequired), errors.Is(err, ErrLocationRequired), errors.Is(err, ErrBarcodeRequired):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}
