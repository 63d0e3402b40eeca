package assets

import (
	"net/http"
	"strconv"

	"stocktake/internal/repository"
	custom_error "stocktake/pkg/errors"
	"stocktake/pkg/models"
	"stocktake/pkg/roles"
	"stocktake/pkg/security"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	repo *AssetRepository
}

func NewAssetHandler(r *AssetRepository) *AssetHandler {
	return &AssetHandler{repo: r}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	handler := NewAssetHandler(NewRepository(r))

	protected := router.Group("")
	protected.Use(security.JWTMiddleware())
	{
		protected.GET("/assets", handler.GetAssetList)
		protected.GET("/assets/:id", handler.GetAsset)
		protected.GET("/assets/barcode/:barcode", handler.GetAssetByBarcode)
		protected.POST("/assets", security.Authorize(roles.Admin), handler.CreateAsset)
		protected.DELETE("/assets/:id", security.Authorize(roles.Admin), handler.RemoveAsset)
	}
}

func (h *AssetHandler) GetAssetList(c *gin.Context) {
	assets, err := h.repo.GetAssetList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	asset, err := h.repo.GetAsset(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get asset", "details": err.Error()})
		return
	}
	if asset == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate asset with given id"})
		return
	}

	c.JSON(http.StatusOK, asset)
}

// GetAssetByBarcode backs the scan screen's asset preview and the
// copy-asset flow.
func (h *AssetHandler) GetAssetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind barcode"})
		return
	}

	asset, err := h.repo.FindAssetByBarcode(barcode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get asset", "details": err.Error()})
		return
	}
	if asset == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate asset with given barcode"})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	actor, err := security.CurrentActor(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	asset := assetFromRequest(req, actor.Username)

	if err := h.repo.PersistAsset(&asset); err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset code or barcode already registered"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create asset"})
		}
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	deletedID, err := h.repo.RemoveAsset(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete asset", "details": err.Error()})
		return
	}
	if deletedID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate asset with given id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deletedID})
}

func assetFromRequest(req models.AssetRequest, createdBy string) models.Asset {
	status := req.Status
	if status == "" {
		status = models.AssetStatusActive
	}
	assetType := req.Type
	if assetType == "" {
		assetType = models.TypeUnspecified
	}

	return models.Asset{
		AssetCode:         req.AssetCode,
		Barcode:           req.Barcode,
		OldBarcode:        req.OldBarcode,
		Description:       req.Description,
		PhoneNumber:       req.PhoneNumber,
		MainCategory:      req.MainCategory,
		Type:              assetType,
		SubCategory:       req.SubCategory,
		RegionID:          req.RegionID,
		CityID:            req.CityID,
		BuildingID:        req.BuildingID,
		Status:            status,
		Condition:         req.Condition,
		CustodianNumber:   req.CustodianNumber,
		CustodianName:     req.CustodianName,
		CustodianType:     req.CustodianType,
		CreatedByUsername: createdBy,
	}
}
