package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gitlab.com/MikeTTh/env"

	"github.com/evai-live/evai-bot/utils"
)

// requireAdminTokenMiddleware guards the admin and poll-control surface with a
// single shared token, accepted as a bearer header or a ?token= query
// parameter. An empty configured token means dev mode: everything open.
func requireAdminTokenMiddleware(ctx *gin.Context) {
	required := strings.TrimSpace(env.String("ADMIN_TOKEN", ""))
	if required == "" {
		return
	}

	supplied, ok := parseAuthHeader(ctx, "Bearer")
	if !ok {
		supplied = ctx.Query("token")
	}
	if supplied == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	// compare hashes so the comparison is constant-time regardless of length
	if subtle.ConstantTimeCompare(utils.TokenHash(supplied), utils.TokenHash(required)) != 1 {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
}

func parseAuthHeader(ctx *gin.Context, type_ string) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}

	if parts[0] != type_ {
		return "", false
	}

	return parts[1], true
}
