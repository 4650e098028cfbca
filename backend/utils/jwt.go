package utils

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"university/backend/config"
	"university/backend/models"
)

// IdentityClaims carries the resolved caller identity inside a token.
type IdentityClaims struct {
	Role          models.Role `json:"role"`
	Email         string      `json:"email,omitempty"`
	Name          string      `json:"name,omitempty"`
	StudentNumber string      `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

func GenerateJWTToken(identity models.Identity, cfg *config.Config) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		Role:          identity.Role,
		Email:         identity.Email,
		Name:          identity.Name,
		StudentNumber: identity.StudentNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ExtractIdentityFromToken reads the Authorization header, with or without
// a "Bearer " prefix, and returns the identity it was issued for.
func ExtractIdentityFromToken(c *fiber.Ctx, cfg *config.Config) (models.Identity, error) {
	tokenString := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	if claims.Subject == "" {
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	switch claims.Role {
	case models.RoleAdmin, models.RoleStudent:
	default:
		return models.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid role in token")
	}

	return models.Identity{
		ID:            claims.Subject,
		Role:          claims.Role,
		Email:         claims.Email,
		Name:          claims.Name,
		StudentNumber: claims.StudentNumber,
	}, nil
}
