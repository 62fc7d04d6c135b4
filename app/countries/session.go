package countries

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/joefazee/atlas/internal/debounce"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/models"
)

// ErrModalClosed is returned to a detail request superseded by a close or newer open
var ErrModalClosed = errors.New("detail request superseded")

// View is everything the rendering layer needs for the current page
type View struct {
	Items      []ViewRecord `json:"items"`
	Query      QueryState   `json:"query"`
	PageIndex  int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	TotalItems int          `json:"total_items"`
	HasPrev    bool         `json:"has_prev"`
	HasNext    bool         `json:"has_next"`
	Empty      bool         `json:"empty"`
	Label      string       `json:"label"`
}

// Modal is the state of the detail overlay
type Modal struct {
	Open    bool           `json:"open"`
	Code    string         `json:"code,omitempty"`
	Loading bool           `json:"loading"`
	Detail  *CountryDetail `json:"detail,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// SessionOptions carries the collaborators of a session
type SessionOptions struct {
	Provider     Provider
	Preferences  Preferences
	Logger       logger.Logger
	SuggestDelay time.Duration
	Sort         SortKey
	Favorites    FavoriteSet
}

// Session is the application state of one client: the query, the page, the
// favorites and the overlays. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	master   []models.Country
	provider Provider
	prefs    Preferences
	logger   logger.Logger

	query     QueryState
	pageIndex int
	favorites FavoriteSet
	filtered  []models.Country

	input              string
	suggestions        []string
	suggestionsVisible bool
	debouncer          *debounce.Debouncer

	modal    Modal
	modalGen uint64
}

// NewSession starts a session on page 1 of the default query, ordered by the
// stored sort key
func NewSession(master []models.Country, opts SessionOptions) *Session {
	delay := opts.SuggestDelay
	if delay <= 0 {
		delay = debounce.DefaultDelay
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNullLogger()
	}
	favorites := opts.Favorites
	if favorites == nil {
		favorites = NewFavoriteSet()
	}

	s := &Session{
		master:      master,
		provider:    opts.Provider,
		prefs:       opts.Preferences,
		logger:      log,
		favorites:   favorites,
		suggestions: []string{},
		debouncer:   debounce.New(delay),
	}
	s.query = DefaultQuery()
	s.query.SortKey = SortKeyOrDefault(string(opts.Sort))
	s.applyLocked()
	return s
}

// applyLocked re-runs the query and goes back to page 1
func (s *Session) applyLocked() {
	s.filtered = ApplyQuery(s.master, s.query, s.favorites)
	s.pageIndex = 1
}

func (s *Session) viewLocked() View {
	page := Paginate(s.filtered, s.pageIndex, PageSize)
	return View{
		Items:      Project(page.Items, s.favorites),
		Query:      s.query,
		PageIndex:  page.PageIndex,
		PageSize:   PageSize,
		TotalPages: page.TotalPages,
		TotalItems: len(s.filtered),
		HasPrev:    HasPrev(page.PageIndex, page.TotalPages),
		HasNext:    HasNext(page.PageIndex, page.TotalPages),
		Empty:      len(s.filtered) == 0,
		Label:      PageLabel(page.PageIndex, page.TotalPages),
	}
}

// View returns the current page
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Query returns the active query
func (s *Session) Query() QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetQuery replaces the whole query. A changed sort key is persisted.
func (s *Session) SetQuery(ctx context.Context, q QueryState) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.Region == "" {
		q.Region = AllRegions
	}
	if q.SortKey == "" {
		q.SortKey = s.query.SortKey
	}
	if _, err := ParseSortKey(string(q.SortKey)); err != nil {
		return View{}, err
	}
	if q.SortKey != s.query.SortKey {
		if err := s.saveSortLocked(ctx, q.SortKey); err != nil {
			return View{}, err
		}
	}
	s.query = q
	s.applyLocked()
	return s.viewLocked(), nil
}

// SetSearch applies search text. The suggestion box is hidden.
func (s *Session) SetSearch(text string) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input = text
	s.hideSuggestionsLocked()
	s.query.SearchText = text
	s.applyLocked()
	return s.viewLocked()
}

// SetRegion filters to one region, or to all of them with "all"
func (s *Session) SetRegion(region string) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if region == "" {
		region = AllRegions
	}
	s.query.Region = region
	s.applyLocked()
	return s.viewLocked()
}

// SetSort changes and persists the ordering
func (s *Session) SetSort(ctx context.Context, key SortKey) (View, error) {
	if _, err := ParseSortKey(string(key)); err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveSortLocked(ctx, key); err != nil {
		return View{}, err
	}
	s.query.SortKey = key
	s.applyLocked()
	return s.viewLocked(), nil
}

func (s *Session) saveSortLocked(ctx context.Context, key SortKey) error {
	if s.prefs == nil {
		return nil
	}
	if err := s.prefs.SetSort(ctx, key); err != nil {
		return fmt.Errorf("save sort preference: %w", err)
	}
	return nil
}

// SetFavoritesOnly switches the favorites filter
func (s *Session) SetFavoritesOnly(on bool) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query.FavoritesOnly = on
	s.applyLocked()
	return s.viewLocked()
}

// ToggleFavoritesOnly flips the favorites filter
func (s *Session) ToggleFavoritesOnly() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query.FavoritesOnly = !s.query.FavoritesOnly
	s.applyLocked()
	return s.viewLocked()
}

// Reset restores the default query, clears the input and hides suggestions.
// The stored sort preference is left untouched.
func (s *Session) Reset() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input = ""
	s.hideSuggestionsLocked()
	s.query = DefaultQuery()
	s.applyLocked()
	return s.viewLocked()
}

// ChangePage moves by step pages. Out of range moves are ignored and report false.
func (s *Session) ChangePage(step int) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := ChangePage(s.pageIndex, step, TotalPages(len(s.filtered), PageSize))
	s.pageIndex = next
	return s.viewLocked(), ok
}

// Favorites returns the current favorite set
func (s *Session) Favorites() FavoriteSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites
}

// ToggleFavorite flips code in the favorite set and persists the result.
// With the favorites filter on the list is recomputed but the page is kept.
func (s *Session) ToggleFavorite(ctx context.Context, code string) (FavoriteSet, View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.favorites.Toggle(code)
	if s.prefs != nil {
		if err := s.prefs.SaveFavorites(ctx, next); err != nil {
			return s.favorites, View{}, fmt.Errorf("save favorites: %w", err)
		}
	}
	s.favorites = next

	if s.query.FavoritesOnly {
		s.filtered = ApplyQuery(s.master, s.query, s.favorites)
	}
	return s.favorites, s.viewLocked(), nil
}

// SetInput records live search input and schedules the suggestion box
// refresh. Only the last input within the debounce delay is evaluated.
func (s *Session) SetInput(text string) Suggestions {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()

	s.debouncer.Trigger(s.refreshSuggestions)
	return s.Suggestions()
}

func (s *Session) refreshSuggestions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.suggestions = Suggest(s.master, s.input)
	s.suggestionsVisible = len(s.suggestions) > 0
}

// FlushSuggestions evaluates pending input immediately
func (s *Session) FlushSuggestions() Suggestions {
	s.debouncer.Flush()
	return s.Suggestions()
}

// Suggestions returns the suggestion box state
func (s *Session) Suggestions() Suggestions {
	pending := s.debouncer.Pending()

	s.mu.Lock()
	defer s.mu.Unlock()

	names := s.suggestions
	if !s.suggestionsVisible {
		names = []string{}
	}
	return Suggestions{
		Input:   s.input,
		Visible: s.suggestionsVisible,
		Pending: pending,
		Names:   names,
	}
}

// SelectSuggestion puts name in the input and applies it as the search
func (s *Session) SelectSuggestion(name string) View {
	s.debouncer.Cancel()
	return s.SetSearch(name)
}

// HideSuggestions closes the suggestion box without touching the input
func (s *Session) HideSuggestions() {
	s.debouncer.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hideSuggestionsLocked()
}

func (s *Session) hideSuggestionsLocked() {
	s.suggestions = []string{}
	s.suggestionsVisible = false
}

// ClearInput empties the input, hides suggestions and closes the modal.
// The applied query is not re-run.
func (s *Session) ClearInput() {
	s.debouncer.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.input = ""
	s.hideSuggestionsLocked()
	s.closeModalLocked()
}

// OpenModal shows the loading overlay for code and fetches its details.
// When another open or a close happens while the fetch is in flight the
// result is discarded and ErrModalClosed is returned.
func (s *Session) OpenModal(ctx context.Context, code string) (Modal, error) {
	s.mu.Lock()
	s.modalGen++
	gen := s.modalGen
	s.modal = Modal{Open: true, Code: code, Loading: true}
	s.mu.Unlock()

	var (
		detail   *CountryDetail
		fetchErr error
	)
	if s.provider == nil {
		fetchErr = &DetailFetchError{Code: code, Cause: errors.New("no provider configured")}
	} else {
		var country *models.Country
		country, fetchErr = s.provider.FetchCountryDetail(ctx, code)
		if fetchErr == nil {
			detail = NewCountryDetail(country)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.modalGen {
		s.logger.Debug("discarding stale country detail", map[string]interface{}{"code": code})
		return s.modal, ErrModalClosed
	}

	s.modal.Loading = false
	if fetchErr != nil {
		s.logger.Error(fetchErr, map[string]interface{}{"code": code})
		s.modal.Error = DetailErrorMessage
		return s.modal, fetchErr
	}
	s.modal.Detail = detail
	return s.modal, nil
}

// Modal returns the overlay state
func (s *Session) Modal() Modal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal
}

// CloseModal hides the overlay; an in-flight fetch will be discarded
func (s *Session) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeModalLocked()
}

func (s *Session) closeModalLocked() {
	s.modalGen++
	s.modal = Modal{}
}

// Close cancels pending background work
func (s *Session) Close() {
	s.debouncer.Cancel()
}
