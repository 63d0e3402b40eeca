package users

import (
	"errors"
	"net/http"
	"strconv"

	"stocktake/internal/repository"
	custom_error "stocktake/pkg/errors"
	"stocktake/pkg/models"
	"stocktake/pkg/roles"
	"stocktake/pkg/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	repository *UserRepository
}

func NewUserHandler(r *UserRepository) *UserHandler {
	return &UserHandler{repository: r}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	handler := NewUserHandler(NewUserRepository(r))

	users := router.Group("/users", security.JWTMiddleware(), security.Authorize(roles.Admin))
	users.GET("", handler.GetUserList)
	users.GET("/:id", handler.GetUser)
	users.POST("", handler.CreateUser)
	users.PATCH("/:id/role", handler.UpdateRole)
}

func (h *UserHandler) GetUserList(c *gin.Context) {
	users, err := h.repository.GetUserList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	user, err := h.repository.GetUser(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var request models.CreateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := roles.Role(request.Role)
	if !role.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be employee, supervisor or admin"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to hash password"})
		return
	}

	user := &models.User{
		Username:     request.Username,
		FullName:     request.FullName,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := h.repository.PersistUser(user); err != nil {
		var conflict *custom_error.UniqueViolationError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var request struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !roles.Role(request.Role).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be employee, supervisor or admin"})
		return
	}

	if err := h.repository.UpdateUserRole(id, request.Role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}
