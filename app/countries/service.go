package countries

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/joefazee/atlas/internal/cache"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/models"
)

// DefaultSessionTTL is how long an idle session is kept
const DefaultSessionTTL = 30 * time.Minute

// ServiceOptions carries the collaborators of the country service
type ServiceOptions struct {
	Provider     Provider
	Preferences  PreferencesFactory
	Sessions     cache.Cache[*Session]
	SessionTTL   time.Duration
	SuggestDelay time.Duration
	Logger       logger.Logger
}

// service implements the Service interface
type service struct {
	provider     Provider
	prefs        PreferencesFactory
	sessions     cache.Cache[*Session]
	sessionTTL   time.Duration
	suggestDelay time.Duration
	logger       logger.Logger

	masterMu sync.Mutex
	master   []models.Country

	sessionMu sync.Mutex
}

// NewService creates a new country service
func NewService(opts ServiceOptions) Service {
	s := &service{
		provider:     opts.Provider,
		prefs:        opts.Preferences,
		sessions:     opts.Sessions,
		sessionTTL:   opts.SessionTTL,
		suggestDelay: opts.SuggestDelay,
		logger:       opts.Logger,
	}
	if s.sessions == nil {
		s.sessions = cache.NewMemoryCache[*Session]()
	}
	if ev, ok := s.sessions.(interface {
		OnEvict(func(string, *Session))
	}); ok {
		ev.OnEvict(func(_ string, sess *Session) { sess.Close() })
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = DefaultSessionTTL
	}
	if s.logger == nil {
		s.logger = logger.NewNullLogger()
	}
	return s
}

// Master loads the master list once. A failed load is not remembered, so
// the next call tries again.
func (s *service) Master(ctx context.Context) ([]models.Country, error) {
	s.masterMu.Lock()
	defer s.masterMu.Unlock()

	if s.master != nil {
		return s.master, nil
	}

	fetched, err := s.provider.FetchAllCountries(ctx)
	if err != nil {
		s.logger.Error(err, map[string]interface{}{"operation": "load_countries"})
		return nil, err
	}

	master := make([]models.Country, 0, len(fetched))
	for i := range fetched {
		if err := fetched[i].Validate(); err != nil {
			s.logger.Warn("dropping invalid country record", map[string]interface{}{
				"code":  fetched[i].Code,
				"name":  fetched[i].CommonName,
				"error": err.Error(),
			})
			continue
		}
		master = append(master, fetched[i])
	}
	SortByName(master)

	s.logger.Info("country list loaded", map[string]interface{}{"count": len(master)})
	s.master = master
	return s.master, nil
}

// ListCountries runs the query pipeline without any session state
func (s *service) ListCountries(ctx context.Context, req *ListCountriesRequest, favorites FavoriteSet) (*ListResult, error) {
	sortKey := DefaultSortKey
	if req.Sort != "" {
		key, err := ParseSortKey(req.Sort)
		if err != nil {
			return nil, err
		}
		sortKey = key
	}

	master, err := s.Master(ctx)
	if err != nil {
		return nil, err
	}

	state := QueryState{
		SearchText:    req.Search,
		Region:        req.Region,
		FavoritesOnly: req.FavoritesOnly,
		SortKey:       sortKey,
	}
	filtered := ApplyQuery(master, state, favorites)
	page := Paginate(filtered, req.Page, PageSize)

	return &ListResult{
		Items: Project(page.Items, favorites),
		Meta:  NewPaginationMeta(page, len(filtered)),
		Empty: len(filtered) == 0,
		Label: PageLabel(page.PageIndex, page.TotalPages),
	}, nil
}

// Regions returns the region filter options
func (s *service) Regions(ctx context.Context) ([]string, error) {
	master, err := s.Master(ctx)
	if err != nil {
		return nil, err
	}
	return Regions(master), nil
}

// GetCountryDetail fetches and formats the full record of one country
func (s *service) GetCountryDetail(ctx context.Context, code string) (*CountryDetail, error) {
	if !models.IsCountryCode(code) {
		return nil, models.ErrInvalidCountryCode
	}

	country, err := s.provider.FetchCountryDetail(ctx, strings.ToUpper(code))
	if err != nil {
		s.logger.Error(err, map[string]interface{}{"operation": "load_country_detail", "code": code})
		return nil, err
	}
	return NewCountryDetail(country), nil
}

// Session returns the live session of a client or starts one from the
// stored preferences
func (s *service) Session(ctx context.Context, clientID string) (*Session, error) {
	if clientID == "" {
		return nil, models.ErrInvalidClientID
	}

	if sess, err := s.liveSession(ctx, clientID); err != nil || sess != nil {
		return sess, err
	}

	// built without the lock; the master load may hit the network
	master, err := s.Master(ctx)
	if err != nil {
		return nil, err
	}

	opts := SessionOptions{
		Provider:     s.provider,
		Logger:       s.logger,
		SuggestDelay: s.suggestDelay,
		Sort:         DefaultSortKey,
	}
	if s.prefs != nil {
		prefs := s.prefs(clientID)
		opts.Preferences = prefs
		opts.Favorites = s.storedFavorites(ctx, prefs, clientID)
		opts.Sort = s.storedSort(ctx, prefs, clientID)
	}

	fresh := NewSession(master, opts)

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	// another request for the same client may have won the race
	if sess, err := s.touchLocked(ctx, clientID); err != nil || sess != nil {
		fresh.Close()
		return sess, err
	}
	if err := s.sessions.Set(ctx, clientID, fresh, s.sessionTTL); err != nil {
		fresh.Close()
		return nil, err
	}
	s.logger.Debug("session started", map[string]interface{}{"client_id": clientID})
	return fresh, nil
}

// liveSession returns the cached session of a client, or nil when there is none
func (s *service) liveSession(ctx context.Context, clientID string) (*Session, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	return s.touchLocked(ctx, clientID)
}

func (s *service) touchLocked(ctx context.Context, clientID string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, clientID)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// sliding expiry
	if err := s.sessions.Set(ctx, clientID, sess, s.sessionTTL); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *service) storedFavorites(ctx context.Context, prefs Preferences, clientID string) FavoriteSet {
	favorites, err := prefs.Favorites(ctx)
	if err != nil {
		s.logger.Warn("could not read favorites", map[string]interface{}{"client_id": clientID, "error": err.Error()})
		return NewFavoriteSet()
	}
	return favorites
}

func (s *service) storedSort(ctx context.Context, prefs Preferences, clientID string) SortKey {
	key, err := prefs.Sort(ctx)
	if err != nil {
		s.logger.Warn("could not read sort preference", map[string]interface{}{"client_id": clientID, "error": err.Error()})
		return DefaultSortKey
	}
	return SortKeyOrDefault(string(key))
}
