package preferences

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/atlas/app/api"
	"github.com/joefazee/atlas/app/countries"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/models"
)

// Handler handles HTTP requests for preferences
type Handler struct {
	store  ClientStore
	logger logger.Logger
}

// NewHandler creates a new preference handler
func NewHandler(store ClientStore, l logger.Logger) *Handler {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Handler{store: store, logger: l}
}

func (h *Handler) service(c *gin.Context) (*Service, bool) {
	clientID, ok := api.ClientID(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return nil, false
	}
	return NewService(Scoped(h.store, clientID), h.logger), true
}

func (h *Handler) handleError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, models.ErrInvalidTheme) ||
		errors.Is(err, models.ErrInvalidSortKey) ||
		errors.Is(err, models.ErrPreferenceValueTooLong) {
		api.ValidationErrorResponse(c, err.Error())
		return
	}
	h.logger.Error(err, map[string]interface{}{"path": c.FullPath()})
	api.InternalErrorResponse(c, fallback)
}

// GetTheme godoc
// @Summary Get theme
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=ThemeResponse}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/preferences/theme [get]
func (h *Handler) GetTheme(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	theme, err := svc.Theme(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Failed to read theme")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Theme retrieved successfully", ThemeResponse{Theme: theme})
}

// SetTheme godoc
// @Summary Set theme
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ThemeRequest true "Theme"
// @Success 200 {object} api.Response{data=ThemeResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/preferences/theme [put]
func (h *Handler) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	svc, ok := h.service(c)
	if !ok {
		return
	}

	theme := Theme(req.Theme)
	if err := svc.SetTheme(c.Request.Context(), theme); err != nil {
		h.handleError(c, err, "Failed to save theme")
		return
	}
	api.UpdatedResponse(c, "Theme updated successfully", ThemeResponse{Theme: theme})
}

// ToggleTheme godoc
// @Summary Toggle theme
// @Description Switch between light and dark
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=ThemeResponse}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/preferences/theme/toggle [post]
func (h *Handler) ToggleTheme(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	theme, err := svc.ToggleTheme(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Failed to save theme")
		return
	}
	api.UpdatedResponse(c, "Theme updated successfully", ThemeResponse{Theme: theme})
}

// GetSort godoc
// @Summary Get stored sort
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=SortResponse}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/preferences/sort [get]
func (h *Handler) GetSort(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	key, err := svc.Sort(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Failed to read sort preference")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Sort retrieved successfully", SortResponse{Sort: string(key)})
}

// SetSort godoc
// @Summary Set stored sort
// @Description Sort order used when a new session starts
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SortRequest true "Sort"
// @Success 200 {object} api.Response{data=SortResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/preferences/sort [put]
func (h *Handler) SetSort(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.ValidationErrorResponse(c, err.Error())
		return
	}

	svc, ok := h.service(c)
	if !ok {
		return
	}

	if err := svc.SetSort(c.Request.Context(), countries.SortKey(req.Sort)); err != nil {
		h.handleError(c, err, "Failed to save sort preference")
		return
	}
	api.UpdatedResponse(c, "Sort updated successfully", SortResponse{Sort: req.Sort})
}

// ClearPreferences godoc
// @Summary Forget stored preferences
// @Description Drop favorites, theme and sort stored for the client. Sessions started afterwards use the defaults.
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/preferences [delete]
func (h *Handler) ClearPreferences(c *gin.Context) {
	clientID, ok := api.ClientID(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}

	if err := h.store.Purge(c.Request.Context(), clientID); err != nil {
		h.handleError(c, err, "Failed to clear preferences")
		return
	}
	api.DeletedResponse(c, "Preferences cleared")
}

// GetPreferences godoc
// @Summary Stored preferences
// @Description Every value stored for the client, keyed by preference key
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=PreferencesResponse,meta=api.ListMeta}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/preferences [get]
func (h *Handler) GetPreferences(c *gin.Context) {
	clientID, ok := api.ClientID(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return
	}

	values, err := h.store.All(c.Request.Context(), clientID)
	if err != nil {
		h.handleError(c, err, "Failed to read preferences")
		return
	}
	api.ListResponse(c, "Preferences retrieved successfully", PreferencesResponse{Values: values}, len(values))
}
