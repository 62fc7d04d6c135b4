package countries

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/atlas/app/api"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/internal/sanitizer"
	"github.com/joefazee/atlas/internal/validator"
	"github.com/joefazee/atlas/models"
)

// Handler handles HTTP requests for countries
type Handler struct {
	service   Service
	sanitizer sanitizer.HTMLStripperer
	logger    logger.Logger
}

// NewHandler creates a new country handler
func NewHandler(service Service, s sanitizer.HTMLStripperer, l logger.Logger) *Handler {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Handler{
		service:   service,
		sanitizer: s,
		logger:    l,
	}
}

func (h *Handler) clean(text string) string {
	return sanitizer.CleanInput(h.sanitizer, text, MaxSearchRunes)
}

// handleError maps service errors onto the response envelope
func (h *Handler) handleError(c *gin.Context, err error, fallback string) {
	var fetchErr *FetchError
	var detailErr *DetailFetchError

	switch {
	case errors.As(err, &fetchErr):
		api.FetchErrorResponse(c, ListErrorMessage)
	case errors.As(err, &detailErr):
		api.FetchErrorResponse(c, DetailErrorMessage)
	case errors.Is(err, models.ErrInvalidSortKey),
		errors.Is(err, models.ErrInvalidCountryCode):
		api.ValidationErrorResponse(c, err.Error())
	case errors.Is(err, models.ErrInvalidClientID):
		api.UnauthorizedResponse(c)
	case errors.Is(err, ErrModalClosed):
		api.ConflictResponse(c, "Country details request was superseded")
	default:
		h.logger.Error(err, map[string]interface{}{"path": c.FullPath()})
		api.InternalErrorResponse(c, fallback)
	}
}

// session resolves the session of the authenticated client, writing the
// error response itself when it cannot
func (h *Handler) session(c *gin.Context) (*Session, bool) {
	clientID, ok := api.ClientID(c)
	if !ok {
		api.UnauthorizedResponse(c)
		return nil, false
	}

	sess, err := h.service.Session(c.Request.Context(), clientID)
	if err != nil {
		h.handleError(c, err, "Failed to load session")
		return nil, false
	}
	return sess, true
}

// ListCountries godoc
// @Summary List countries
// @Description Filter, sort and paginate the country directory without session state
// @Tags countries
// @Produce json
// @Param search query string false "Search text matched against name, code, region and capital"
// @Param region query string false "Region name or all"
// @Param favorites_only query bool false "Only return favorites"
// @Param favorites query string false "Comma separated favorite codes"
// @Param sort query string false "Sort key" Enums(name-asc, name-desc, population-desc, population-asc, area-desc, area-asc)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} api.Response{data=[]ViewRecord,meta=api.PaginationMeta}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries [get]
func (h *Handler) ListCountries(c *gin.Context) {
	var req ListCountriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Invalid list query", v.Errors))
		return
	}
	req.Search = h.clean(req.Search)

	result, err := h.service.ListCountries(c.Request.Context(), &req, NewFavoriteSet(req.FavoriteCodes()...))
	if err != nil {
		h.handleError(c, err, "Failed to list countries")
		return
	}

	message := "Countries retrieved successfully"
	if result.Empty {
		message = "No countries found."
	}
	api.PaginatedResponse(c, message, result.Items, result.Meta)
}

// GetRegions godoc
// @Summary List regions
// @Description Distinct regions of the country directory
// @Tags countries
// @Produce json
// @Success 200 {object} api.Response{data=RegionsResponse,meta=api.ListMeta}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/regions [get]
func (h *Handler) GetRegions(c *gin.Context) {
	regions, err := h.service.Regions(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Failed to list regions")
		return
	}
	api.ListResponse(c, "Regions retrieved successfully", RegionsResponse{Regions: regions}, len(regions))
}

// GetCountryDetail godoc
// @Summary Get country details
// @Description Full record of a country by its two-letter code
// @Tags countries
// @Produce json
// @Param code path string true "Country Code (2 letters)"
// @Success 200 {object} api.Response{data=CountryDetail}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/countries/{code} [get]
func (h *Handler) GetCountryDetail(c *gin.Context) {
	code := c.Param("code")
	if !models.IsCountryCode(code) {
		api.ValidationErrorResponse(c, "Country code must be 2 letters")
		return
	}

	detail, err := h.service.GetCountryDetail(c.Request.Context(), code)
	if err != nil {
		h.handleError(c, err, "Failed to fetch country")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Country retrieved successfully", detail)
}

// GetView godoc
// @Summary Current page
// @Description Current page of the client session
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=View}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/view [get]
func (h *Handler) GetView(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	api.SuccessResponse(c, http.StatusOK, "View retrieved successfully", sess.View())
}

// UpdateQuery godoc
// @Summary Update query
// @Description Replace search, region, favorites filter and sort. Returns to page 1.
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateQueryRequest true "Query"
// @Success 200 {object} api.Response{data=View}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/query [put]
func (h *Handler) UpdateQuery(c *gin.Context) {
	var req UpdateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}
	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Invalid query", v.Errors))
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}

	view, err := sess.SetQuery(c.Request.Context(), QueryState{
		SearchText:    h.clean(req.Search),
		Region:        strings.TrimSpace(req.Region),
		FavoritesOnly: req.FavoritesOnly,
		SortKey:       SortKey(req.Sort),
	})
	if err != nil {
		h.handleError(c, err, "Failed to update query")
		return
	}
	api.UpdatedResponse(c, "Query updated successfully", view)
}

// ChangePage godoc
// @Summary Change page
// @Description Move the session page by step; out of range moves are ignored
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePageRequest true "Step"
// @Success 200 {object} api.Response{data=ChangePageResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/page [post]
func (h *Handler) ChangePage(c *gin.Context) {
	var req ChangePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}

	view, moved := sess.ChangePage(req.Step)
	api.SuccessResponse(c, http.StatusOK, "Page changed", ChangePageResponse{Moved: moved, View: view})
}

// ResetSession godoc
// @Summary Show all countries
// @Description Clear search, region, favorites filter and sort
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=View}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/reset [post]
func (h *Handler) ResetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Session reset", sess.Reset())
}

// ToggleFavorite godoc
// @Summary Toggle favorite
// @Description Add or remove a country from favorites
// @Tags session
// @Produce json
// @Security BearerAuth
// @Param code path string true "Country Code (2 letters)"
// @Success 200 {object} api.Response{data=ToggleFavoriteResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/favorites/{code} [post]
func (h *Handler) ToggleFavorite(c *gin.Context) {
	code := c.Param("code")
	if !models.IsCountryCode(code) {
		api.ValidationErrorResponse(c, "Country code must be 2 letters")
		return
	}
	code = strings.ToUpper(code)

	sess, ok := h.session(c)
	if !ok {
		return
	}

	favorites, view, err := sess.ToggleFavorite(c.Request.Context(), code)
	if err != nil {
		h.handleError(c, err, "Failed to save favorites")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Favorites updated", ToggleFavoriteResponse{
		Code:      code,
		Favorited: favorites.Contains(code),
		Favorites: favorites.Codes(),
		View:      view,
	})
}

// GetFavorites godoc
// @Summary List favorites
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=FavoritesResponse}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/favorites [get]
func (h *Handler) GetFavorites(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Favorites retrieved successfully",
		FavoritesResponse{Codes: sess.Favorites().Codes()})
}

// SetInput godoc
// @Summary Search input
// @Description Record live search input; suggestions refresh after a short pause unless immediate is set
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InputRequest true "Input"
// @Success 200 {object} api.Response{data=Suggestions}
// @Success 202 {object} api.Response{data=Suggestions}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/input [post]
func (h *Handler) SetInput(c *gin.Context) {
	var req InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}
	suggestions := sess.SetInput(h.clean(req.Text))
	if req.Immediate {
		api.SuccessResponse(c, http.StatusOK, "Suggestions retrieved successfully", sess.FlushSuggestions())
		return
	}
	api.SuccessResponse(c, http.StatusAccepted, "Input received", suggestions)
}

// GetSuggestions godoc
// @Summary Search suggestions
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=Suggestions}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/suggestions [get]
func (h *Handler) GetSuggestions(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Suggestions retrieved successfully", sess.Suggestions())
}

// SelectSuggestion godoc
// @Summary Select suggestion
// @Description Use a suggestion as the search text and apply it
// @Tags session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SelectSuggestionRequest true "Suggestion"
// @Success 200 {object} api.Response{data=View}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/suggestions/select [post]
func (h *Handler) SelectSuggestion(c *gin.Context) {
	var req SelectSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	name := h.clean(req.Name)
	if !validator.NotBlank(name) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Invalid suggestion",
			map[string]string{"name": "must not be blank"}))
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Search applied", sess.SelectSuggestion(name))
}

// Escape godoc
// @Summary Escape
// @Description Clear the search input, hide suggestions and close the details
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/escape [post]
func (h *Handler) Escape(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.ClearInput()
	api.SuccessResponse(c, http.StatusOK, "Input cleared", nil)
}

// OpenModal godoc
// @Summary Open country details
// @Description Fetch details into the session overlay. A newer open or a close discards this one.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Param code path string true "Country Code (2 letters)"
// @Success 200 {object} api.Response{data=Modal}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Failure 502 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/modal/{code} [post]
func (h *Handler) OpenModal(c *gin.Context) {
	code := c.Param("code")
	if !models.IsCountryCode(code) {
		api.ValidationErrorResponse(c, "Country code must be 2 letters")
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}

	modal, err := sess.OpenModal(c.Request.Context(), strings.ToUpper(code))
	if err != nil {
		h.handleError(c, err, "Failed to fetch country")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Country retrieved successfully", modal)
}

// GetModal godoc
// @Summary Country details overlay
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=Modal}
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/modal [get]
func (h *Handler) GetModal(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Modal retrieved successfully", sess.Modal())
}

// CloseModal godoc
// @Summary Close country details
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response
// @Failure 401 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/session/modal [delete]
func (h *Handler) CloseModal(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.CloseModal()
	api.DeletedResponse(c, "Modal closed")
}
