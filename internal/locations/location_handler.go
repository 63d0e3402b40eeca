package locations

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

type LocationHandler struct {
	repo *LocationRepository
}

func NewLocationHandler(r *LocationRepository) *LocationHandler {
	return &LocationHandler{repo: r}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	handler := NewLocationHandler(NewLocationRepository(r))

	protected := router.Group("")
	protected.Use(security.JWTMiddleware())
	{
		protected.GET("/locations/regions", handler.GetRegions)
		protected.GET("/locations/regions/:id/cities", handler.GetCitiesByRegion)
		protected.GET("/locations/cities/:id/buildings", handler.GetBuildingsByCity)
		protected.POST("/locations/regions", security.Authorize(roles.Admin), handler.CreateRegion)
		protected.POST("/locations/cities", security.Authorize(roles.Admin), handler.CreateCity)
		protected.POST("/locations/buildings", security.Authorize(roles.Admin), handler.CreateBuilding)
	}
}

func (h *LocationHandler) GetRegions(c *gin.Context) {
	regions, err := h.repo.GetRegions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list regions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, regions)
}

func (h *LocationHandler) GetCitiesByRegion(c *gin.Context) {
	regionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid region ID"})
		return
	}

	cities, err := h.repo.GetCitiesByRegion(regionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list cities", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, cities)
}

func (h *LocationHandler) GetBuildingsByCity(c *gin.Context) {
	cityID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid city ID"})
		return
	}

	buildings, err := h.repo.GetBuildingsByCity(cityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list buildings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, buildings)
}

func (h *LocationHandler) CreateRegion(c *gin.Context) {
	var region models.Region
	if err := c.ShouldBindJSON(&region); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.repo.PersistRegion(&region); err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Region name already registered"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create region"})
		}
		return
	}

	c.JSON(http.StatusCreated, region)
}

func (h *LocationHandler) CreateCity(c *gin.Context) {
	var city models.City
	if err := c.ShouldBindJSON(&city); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.repo.PersistCity(&city); err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "City name already registered"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create city"})
		}
		return
	}

	c.JSON(http.StatusCreated, city)
}

func (h *LocationHandler) CreateBuilding(c *gin.Context) {
	var building models.Building
	if err := c.ShouldBindJSON(&building); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.repo.PersistBuilding(&building); err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Building name already registered"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create building"})
		}
		return
	}

	c.JSON(http.StatusCreated, building)
}
