package clients

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joefazee/atlas/app/api"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/internal/security"
)

// Handler issues client identities
type Handler struct {
	tokenMaker security.Maker
	config     *Config
	logger     logger.Logger
}

func NewHandler(tokenMaker security.Maker, config *Config, l logger.Logger) *Handler {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Handler{tokenMaker: tokenMaker, config: config, logger: l}
}

// CreateClient godoc
// @Summary Register a client
// @Description Issue a new client ID with a bearer token for the session and preference routes
// @Tags clients
// @Produce json
// @Success 201 {object} api.Response{data=ClientResponse}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/clients [post]
func (h *Handler) CreateClient(c *gin.Context) {
	clientID := uuid.NewString()

	token, payload, err := h.tokenMaker.CreateToken(clientID, h.config.TokenDuration, security.TokenScopeClient)
	if err != nil {
		h.logger.Error(err, map[string]interface{}{"operation": "create_client_token"})
		api.InternalErrorResponse(c, "Failed to create client")
		return
	}

	api.CreatedResponse(c, "Client created successfully", ClientResponse{
		ClientID:  clientID,
		Token:     token,
		ExpiresAt: payload.ExpiredAt,
	})
}
