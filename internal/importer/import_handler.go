package importer

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"stocktake/internal/repository"
	"stocktake/pkg/models"
	"stocktake/pkg/roles"
	"stocktake/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const stagingTTL = 30 * time.Minute

type ImportHandler struct {
	service *ImportService
	tmpDir  string
}

func NewImportHandler(service *ImportService, tmpDir string) *ImportHandler {
	return &ImportHandler{service: service, tmpDir: tmpDir}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	tmpDir := os.Getenv("IMPORT_TMP_DIR")
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}

	service := NewImportService(
		r,
		NewRegistry(),
		NewStagingStore(stagingTTL),
		NewImportRepository(r),
		uuid.NewString,
	)
	handler := NewImportHandler(service, tmpDir)

	imports := router.Group("/imports", security.JWTMiddleware(), security.Authorize(roles.Admin))
	imports.POST("", handler.Inspect)
	imports.GET("/entities", handler.Entities)
	imports.GET("/entities/:name/fields", handler.EntityFields)
	imports.POST("/:token/target", handler.SelectTarget)
	imports.POST("/:token/apply", handler.Apply)
	imports.GET("/logs", handler.Logs)
}

// Inspect accepts the uploaded workbook, writes it to the import scratch
// directory under a random name and returns the staging token plus the
// detected columns.
func (h *ImportHandler) Inspect(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing uploaded file"})
		return
	}

	if err := os.MkdirAll(h.tmpDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	dst := filepath.Join(h.tmpDir, uuid.NewString()+".xlsx")
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Inspect(actor, dst)
	if err != nil {
		respondImportError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ImportHandler) Entities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entities": h.service.EntityNames()})
}

func (h *ImportHandler) EntityFields(c *gin.Context) {
	fields, err := h.service.EntityFields(c.Param("name"))
	if err != nil {
		respondImportError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

func (h *ImportHandler) SelectTarget(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var request struct {
		Entity string `json:"entity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, err := h.service.SelectTarget(actor, c.Param("token"), request.Entity)
	if err != nil {
		respondImportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

func (h *ImportHandler) Apply(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var request struct {
		Mode    string            `json:"mode" binding:"required"`
		Mapping map[string]string `json:"mapping" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Apply(actor, c.Param("token"), request.Mode, request.Mapping)
	if err != nil {
		respondImportError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ImportHandler) Logs(c *gin.Context) {
	logs, err := h.service.RecentLogs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func actorOrAbort(c *gin.Context) (models.Actor, bool) {
	actor, err := security.CurrentActor(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unable to identify user"})
		return models.Actor{}, false
	}
	return actor, true
}

func respondImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrUploadNotFound), errors.Is(err, ErrUnknownEntity):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNoTarget), errors.Is(err, ErrInvalidMode), errors.Is(err, ErrInvalidMapping):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
