package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avezhov/pulse/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in
	// the Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside the Gin context.
	ContextUsernameKey = "username"
)

// IdentityRequired extracts the viewer identity from a bearer JWT issued by
// the external identity service. Token issuance and revocation live there;
// this service only validates the signature and claims.
func IdentityRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}
