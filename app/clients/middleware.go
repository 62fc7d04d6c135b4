package clients

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/atlas/app/api"
	"github.com/joefazee/atlas/internal/security"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
)

// ClientMiddleware verifies the client token and puts the client ID in the context
func ClientMiddleware(tokenMaker security.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeaderKey)
		if authHeader == "" {
			api.UnauthorizedResponse(c)
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || fields[0] != AuthorizationTypeBearer {
			api.UnauthorizedResponse(c)
			return
		}

		payload, err := tokenMaker.VerifyToken(fields[1])
		if err != nil || payload.ClientID == "" {
			api.UnauthorizedResponse(c)
			return
		}
		if payload.Scope != security.TokenScopeClient {
			api.ForbiddenResponse(c, "Token is not a client token")
			return
		}

		c.Set(api.ClientIDKey, payload.ClientID)
		c.Next()
	}
}
