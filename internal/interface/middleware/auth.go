package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/dquelhas/taskquest/pkg/helpers"
	"github.com/dquelhas/taskquest/pkg/response"
)

// CtxUserIDKey is where the resolved owner id lives in the Gin context.
// Handlers read it once and pass it into services explicitly; nothing below
// the handler layer touches ambient request state.
const CtxUserIDKey = "userID"

// Auth validates the access token cookie and ensures a live session exists
// in Redis whose session id matches the token's. Unauthenticated requests
// are rejected with 401 before any task logic runs.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.AbortError[any](c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError[any](c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		if rdb != nil {
			key := "user:session:" + claims.UserID
			data, err := rdb.HGetAll(c.Request.Context(), key).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				response.AbortError[any](c, http.StatusUnauthorized, "session not found", nil)
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}
