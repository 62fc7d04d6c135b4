package countries

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/atlas/app/api"
	"github.com/joefazee/atlas/internal/deps"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/internal/sanitizer"
	"github.com/joefazee/atlas/tests/mocks"
)

const testClientHeader = "X-Test-Client"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   *api.ErrorInfo  `json:"error"`
}

func setupRouter(t *testing.T, provider *mocks.MockProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	container := deps.NewContainer(nil, nil, sanitizer.NewHTMLStripper(), logger.NewNullLogger(), nil)
	prefs := map[string]*memoryPreferences{}
	InitServices(container, ServiceOptions{
		Provider: provider,
		Preferences: func(clientID string) Preferences {
			if p, ok := prefs[clientID]; ok {
				return p
			}
			p := &memoryPreferences{}
			prefs[clientID] = p
			return p
		},
	})

	r := gin.New()
	v1 := r.Group("/api/v1")
	MountPublic(v1, container)

	client := v1.Group("", func(c *gin.Context) {
		if id := c.GetHeader(testClientHeader); id != "" {
			c.Set(api.ClientIDKey, id)
		}
		c.Next()
	})
	MountSession(client, container)
	return r
}

func do(r *gin.Engine, method, path, client string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if client != "" {
		req.Header.Set(testClientHeader, client)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func okProvider() *mocks.MockProvider {
	provider := new(mocks.MockProvider)
	provider.On("FetchAllCountries", mock.Anything).Return(sampleMaster(), nil)
	return provider
}

func TestHandler_ListCountries(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r := setupRouter(t, okProvider())

		w, env := do(r, http.MethodGet, "/api/v1/countries?region=Europe&sort=name-desc&favorites=fr", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)

		var items []ViewRecord
		require.NoError(t, json.Unmarshal(env.Data, &items))
		require.Len(t, items, 4)
		assert.Equal(t, "Germany", items[0].Country.CommonName)
		assert.Equal(t, "FR", items[1].Country.Code)
		assert.True(t, items[1].IsFavorited)

		var meta api.PaginationMeta
		require.NoError(t, json.Unmarshal(env.Meta, &meta))
		assert.Equal(t, int64(4), meta.Total)
		assert.Equal(t, 1, meta.Page)
		assert.Equal(t, "Page 1 of 1", meta.Label)
	})

	t.Run("Markup is stripped from search", func(t *testing.T) {
		r := setupRouter(t, okProvider())

		w, env := do(r, http.MethodGet, "/api/v1/countries?search=%3Cb%3Ejapan%3C%2Fb%3E", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var items []ViewRecord
		require.NoError(t, json.Unmarshal(env.Data, &items))
		require.Len(t, items, 1)
		assert.Equal(t, "JP", items[0].Country.Code)
	})

	t.Run("No results", func(t *testing.T) {
		r := setupRouter(t, okProvider())

		w, env := do(r, http.MethodGet, "/api/v1/countries?search=zzz", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "No countries found.", env.Message)
	})

	t.Run("Invalid sort", func(t *testing.T) {
		r := setupRouter(t, okProvider())

		w, env := do(r, http.MethodGet, "/api/v1/countries?sort=bogus", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("Invalid page", func(t *testing.T) {
		r := setupRouter(t, okProvider())

		w, env := do(r, http.MethodGet, "/api/v1/countries?page=0", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	})

	t.Run("Page far past the end", func(t *testing.T) {
		r := setupRouter(t, okProvider())

		w, env := do(r, http.MethodGet, "/api/v1/countries?page=9223372036854775807", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var items []ViewRecord
		require.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Empty(t, items)

		var meta api.PaginationMeta
		require.NoError(t, json.Unmarshal(env.Meta, &meta))
		assert.False(t, meta.HasNext)
		assert.Equal(t, 1, meta.TotalPages)
	})

	t.Run("Provider failure", func(t *testing.T) {
		provider := new(mocks.MockProvider)
		provider.On("FetchAllCountries", mock.Anything).Return(nil, &FetchError{StatusCode: 500})
		r := setupRouter(t, provider)

		w, env := do(r, http.MethodGet, "/api/v1/countries", "", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "FETCH_ERROR", env.Error.Code)
		assert.Equal(t, ListErrorMessage, env.Error.Message)
	})
}

func TestHandler_GetRegions(t *testing.T) {
	r := setupRouter(t, okProvider())

	w, env := do(r, http.MethodGet, "/api/v1/countries/regions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RegionsResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, []string{"Africa", "Americas", "Antarctic", "Asia", "Europe"}, resp.Regions)
}

func TestHandler_GetCountryDetail(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		provider := okProvider()
		de := country("Germany", "DE", "Europe", "Berlin", 83240525, area(357114))
		provider.On("FetchCountryDetail", mock.Anything, "DE").Return(&de, nil)
		r := setupRouter(t, provider)

		w, env := do(r, http.MethodGet, "/api/v1/countries/de", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var detail CountryDetail
		require.NoError(t, json.Unmarshal(env.Data, &detail))
		assert.Equal(t, "Germany", detail.CommonName)
		assert.Equal(t, "83,240,525", detail.Population)
	})

	t.Run("Bad code", func(t *testing.T) {
		r := setupRouter(t, okProvider())

		w, _ := do(r, http.MethodGet, "/api/v1/countries/deu", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Provider failure", func(t *testing.T) {
		provider := okProvider()
		provider.On("FetchCountryDetail", mock.Anything, "DE").Return(nil, &DetailFetchError{Code: "DE", StatusCode: 500})
		r := setupRouter(t, provider)

		w, env := do(r, http.MethodGet, "/api/v1/countries/DE", "", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, DetailErrorMessage, env.Error.Message)
	})
}

func TestHandler_SessionRequiresClient(t *testing.T) {
	r := setupRouter(t, okProvider())

	w, env := do(r, http.MethodGet, "/api/v1/session/view", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestHandler_SessionFlow(t *testing.T) {
	r := setupRouter(t, okProvider())
	const client = "client-1"

	var view View
	w, env := do(r, http.MethodGet, "/api/v1/session/view", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 10, view.TotalItems)
	assert.Equal(t, "Page 1 of 1", view.Label)

	w, env = do(r, http.MethodPut, "/api/v1/session/query", client, UpdateQueryRequest{Region: "Europe", Sort: "population-desc"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 4, view.TotalItems)
	assert.Equal(t, "Germany", view.Items[0].Country.CommonName)

	w, _ = do(r, http.MethodPut, "/api/v1/session/query", client, UpdateQueryRequest{Sort: "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var paged ChangePageResponse
	w, env = do(r, http.MethodPost, "/api/v1/session/page", client, ChangePageRequest{Step: 1})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &paged))
	assert.False(t, paged.Moved)
	assert.Equal(t, 1, paged.View.PageIndex)

	var toggled ToggleFavoriteResponse
	w, env = do(r, http.MethodPost, "/api/v1/session/favorites/fr", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.True(t, toggled.Favorited)
	assert.Equal(t, []string{"FR"}, toggled.Favorites)

	var favorites FavoritesResponse
	w, env = do(r, http.MethodGet, "/api/v1/session/favorites", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &favorites))
	assert.Equal(t, []string{"FR"}, favorites.Codes)

	w, env = do(r, http.MethodPost, "/api/v1/session/reset", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 10, view.TotalItems)
	assert.Equal(t, AllRegions, view.Query.Region)

	// other clients do not share state
	w, env = do(r, http.MethodGet, "/api/v1/session/favorites", "client-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &favorites))
	assert.Empty(t, favorites.Codes)
}

func TestHandler_SessionSuggestions(t *testing.T) {
	r := setupRouter(t, okProvider())
	const client = "client-1"

	w, _ := do(r, http.MethodPost, "/api/v1/session/input", client, InputRequest{Text: "al"})
	require.Equal(t, http.StatusAccepted, w.Code)

	var sugg Suggestions
	require.Eventually(t, func() bool {
		_, env := do(r, http.MethodGet, "/api/v1/session/suggestions", client, nil)
		if err := json.Unmarshal(env.Data, &sugg); err != nil {
			return false
		}
		return !sugg.Pending
	}, 2*time.Second, 20*time.Millisecond)
	assert.True(t, sugg.Visible)
	assert.Contains(t, sugg.Names, "Albania")

	var view View
	w, env := do(r, http.MethodPost, "/api/v1/session/suggestions/select", client, SelectSuggestionRequest{Name: "Albania"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Albania", view.Query.SearchText)
	assert.Equal(t, 1, view.TotalItems)

	w, _ = do(r, http.MethodPost, "/api/v1/session/escape", client, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env = do(r, http.MethodGet, "/api/v1/session/suggestions", client, nil)
	require.NoError(t, json.Unmarshal(env.Data, &sugg))
	assert.False(t, sugg.Visible)
	assert.Empty(t, sugg.Input)
}

func TestHandler_SessionModal(t *testing.T) {
	provider := okProvider()
	jp := country("Japan", "JP", "Asia", "Tokyo", 125836021, area(377930))
	provider.On("FetchCountryDetail", mock.Anything, "JP").Return(&jp, nil)
	provider.On("FetchCountryDetail", mock.Anything, "FR").Return(nil, &DetailFetchError{Code: "FR", StatusCode: 503})
	r := setupRouter(t, provider)
	const client = "client-1"

	var modal Modal
	w, env := do(r, http.MethodPost, "/api/v1/session/modal/jp", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &modal))
	assert.True(t, modal.Open)
	require.NotNil(t, modal.Detail)
	assert.Equal(t, "Tokyo", modal.Detail.Capital)

	w, env = do(r, http.MethodGet, "/api/v1/session/modal", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &modal))
	assert.Equal(t, "JP", modal.Code)

	w, _ = do(r, http.MethodDelete, "/api/v1/session/modal", client, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env = do(r, http.MethodGet, "/api/v1/session/modal", client, nil)
	modal = Modal{}
	require.NoError(t, json.Unmarshal(env.Data, &modal))
	assert.False(t, modal.Open)

	w, env = do(r, http.MethodPost, "/api/v1/session/modal/FR", client, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, DetailErrorMessage, env.Error.Message)
}

func TestHandler_ListCountriesValidation(t *testing.T) {
	r := setupRouter(t, okProvider())

	w, env := do(r, http.MethodGet, "/api/v1/countries?favorites=fr,france", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	details, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok)
	fields := details["fields"].(map[string]interface{})
	assert.Contains(t, fields, "favorites")
}

func TestHandler_SelectBlankSuggestion(t *testing.T) {
	r := setupRouter(t, okProvider())

	w, env := do(r, http.MethodPost, "/api/v1/session/suggestions/select", "client-1", SelectSuggestionRequest{Name: "<b></b>"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestHandler_ImmediateInput(t *testing.T) {
	r := setupRouter(t, okProvider())

	w, env := do(r, http.MethodPost, "/api/v1/session/input", "client-1", InputRequest{Text: "al", Immediate: true})
	require.Equal(t, http.StatusOK, w.Code)

	var sugg Suggestions
	require.NoError(t, json.Unmarshal(env.Data, &sugg))
	assert.False(t, sugg.Pending)
	assert.True(t, sugg.Visible)
	assert.Contains(t, sugg.Names, "Albania")
}
