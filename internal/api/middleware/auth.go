package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reviewrise/reviewrise-backend/internal/config"
	"github.com/reviewrise/reviewrise-backend/internal/models"
	"github.com/reviewrise/reviewrise-backend/internal/utils"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.SendUnauthorized(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID.String())
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)
		c.Set("user_name", claims.Name)
		c.Next()
	}
}

func SuperAdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("user_role") != models.RoleSuperAdmin {
			utils.SendForbidden(c, "Super admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func BrandOwnerOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		if role != models.RoleBrandOwner && role != models.RoleSuperAdmin {
			utils.SendForbidden(c, "Brand owner access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
