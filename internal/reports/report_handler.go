package reports

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"stocktake/internal/inventory"
	"stocktake/internal/repository"
	"stocktake/pkg/models"
	"stocktake/pkg/security"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service *ReportService
}

func NewReportHandler(service *ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	service := NewReportService(NewReportRepository(r), inventory.NewSessionRepository(r))
	handler := NewReportHandler(service)

	reports := router.Group("/reports", security.JWTMiddleware())
	reports.GET("/sessions/:id", handler.SessionReport)
	reports.GET("/sessions", handler.SessionsBackup)
}

func (h *ReportHandler) SessionReport(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	sessionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	data, filename, err := h.service.SessionReport(actor, sessionID)
	if err != nil {
		respondReportError(c, err)
		return
	}

	sendWorkbook(c, filename, data)
}

func (h *ReportHandler) SessionsBackup(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	data, filename, err := h.service.SessionsBackup(actor)
	if err != nil {
		respondReportError(c, err)
		return
	}

	sendWorkbook(c, filename, data)
}

func sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func actorOrAbort(c *gin.Context) (models.Actor, bool) {
	actor, err := security.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unable to identify user"})
		return models.Actor{}, false
	}
	return actor, true
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
