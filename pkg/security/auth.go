package security

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"stocktake/internal/repository"
	"stocktake/pkg/models"
	"stocktake/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")

	if secret == "" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Could not load .env: %v", err)
		}
		secret = os.Getenv("JWT_SECRET")
	}

	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtSecret = []byte(secret)
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.Goqu.Select("id", "username", "full_name", "password_hash", "role").
		From("users").
		Where(goqu.Ex{"username": username})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("unknown user %s", username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID int, role roles.Role, username string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   strconv.Itoa(userID),
		"role":     role.String(),
		"username": username,
		"exp":      time.Now().Add(time.Hour * 12).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// CurrentActor resolves the acting principal from claims that JWTMiddleware
// stored on the context.
func CurrentActor(c *gin.Context) (models.Actor, error) {
	rawID, okID := c.Get("userID")
	rawRole, okRole := c.Get("role")
	rawName, okName := c.Get("username")
	if !okID || !okRole || !okName {
		return models.Actor{}, fmt.Errorf("no authenticated principal on context")
	}

	idStr, ok := rawID.(string)
	if !ok {
		return models.Actor{}, fmt.Errorf("userID claim is not a string")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return models.Actor{}, fmt.Errorf("userID claim is not numeric: %w", err)
	}

	roleStr, _ := rawRole.(string)
	role := roles.Role(roleStr)
	if !role.IsValid() {
		return models.Actor{}, fmt.Errorf("unknown role %q", roleStr)
	}

	username, _ := rawName.(string)

	return models.Actor{ID: id, Username: username, Role: role}, nil
}
