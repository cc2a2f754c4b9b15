package middleware

import (
	"net/http"
	"strings"

	userRepo "servicehub/database/repository/user"
	"servicehub/models"
	"servicehub/utils"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

const actorKey = "actor"

// JWTAuthMiddleware validates the bearer token and resolves its subject to
// an account. The account's ID and role are stored as the request actor.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		accountID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "invalid token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), accountID)
		if err != nil {
			if errors.Is(err, errors.NotFound) {
				utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "unknown account")
				return
			}
			utils.GetLogger().Error("Account lookup failed", zap.String("accountId", accountID), zap.Error(err))
			utils.RespondError(c, err)
			return
		}

		c.Set(actorKey, models.Actor{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

// ActorFromContext returns the actor stored by JWTAuthMiddleware.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// RequireRole rejects actors whose role is not one of roles. Must run after
// JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "no authenticated account")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, "Forbidden", "role "+string(actor.Role)+" may not access this resource")
	}
}
