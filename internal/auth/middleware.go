package auth

import (
	"fmt"
	"strings"

	"mayorista-backend/internal/config"
	"mayorista-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRolKey  = "user_rol"
	CtxUserNameKey = "user_name"
)

// JWTMiddleware rejects any request without a valid session. The panel pages
// redirect to login on 401; the API itself does no further authorization
// beyond RequireRol.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Falta el header Authorization")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "El formato debe ser 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inválido")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido o expirado")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "No se pudo leer el token")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserRolKey, claims.Rol)
		c.Locals(CtxUserNameKey, claims.Nombre)

		return c.Next()
	}
}

func RequireRol(allowed ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rol, ok := c.Locals(CtxUserRolKey).(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "No se pudo determinar el rol")
		}

		for _, r := range allowed {
			if r == rol {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "No tenés permisos para esta operación")
	}
}
