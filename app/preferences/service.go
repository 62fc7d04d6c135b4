package preferences

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/joefazee/atlas/app/countries"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/models"
)

// Theme is the colour scheme of the client
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeLight
)

// ParseTheme validates a user supplied theme
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", models.ErrInvalidTheme
}

// Next returns the other theme
func (t Theme) Next() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Service reads and writes the typed preferences of one client.
// It satisfies countries.Preferences.
type Service struct {
	store  Store
	logger logger.Logger
}

var _ countries.Preferences = (*Service)(nil)

// NewService creates a new preference service over a client's store
func NewService(store Store, l logger.Logger) *Service {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Service{store: store, logger: l}
}

// Factory builds per-client services over a shared ClientStore
func Factory(store ClientStore, l logger.Logger) countries.PreferencesFactory {
	return func(clientID string) countries.Preferences {
		return NewService(Scoped(store, clientID), l)
	}
}

// get returns ok=false when the key was never stored
func (s *Service) get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, models.ErrPreferenceNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Favorites returns the stored favorite set. A corrupt value reads as empty.
func (s *Service) Favorites(ctx context.Context) (countries.FavoriteSet, error) {
	raw, ok, err := s.get(ctx, KeyFavorites)
	if err != nil {
		return nil, err
	}
	if !ok {
		return countries.NewFavoriteSet(), nil
	}

	var set countries.FavoriteSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		s.logger.Warn("discarding unreadable favorites", map[string]interface{}{"error": err.Error()})
		return countries.NewFavoriteSet(), nil
	}
	return set, nil
}

// SaveFavorites stores the set as a sorted JSON array of codes
func (s *Service) SaveFavorites(ctx context.Context, favorites countries.FavoriteSet) error {
	if favorites == nil {
		favorites = countries.NewFavoriteSet()
	}
	data, err := json.Marshal(favorites)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, KeyFavorites, string(data))
}

// Theme returns the stored theme, light when unset or unknown
func (s *Service) Theme(ctx context.Context) (Theme, error) {
	raw, ok, err := s.get(ctx, KeyTheme)
	if err != nil || !ok {
		return DefaultTheme, err
	}
	theme, err := ParseTheme(raw)
	if err != nil {
		return DefaultTheme, nil
	}
	return theme, nil
}

func (s *Service) SetTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	return s.store.Set(ctx, KeyTheme, string(theme))
}

// ToggleTheme flips and stores the theme
func (s *Service) ToggleTheme(ctx context.Context) (Theme, error) {
	current, err := s.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := current.Next()
	if err := s.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// Sort returns the stored sort key, name-asc when unset or unknown
func (s *Service) Sort(ctx context.Context) (countries.SortKey, error) {
	raw, ok, err := s.get(ctx, KeySort)
	if err != nil || !ok {
		return countries.DefaultSortKey, err
	}
	return countries.SortKeyOrDefault(raw), nil
}

func (s *Service) SetSort(ctx context.Context, key countries.SortKey) error {
	if _, err := countries.ParseSortKey(string(key)); err != nil {
		return err
	}
	return s.store.Set(ctx, KeySort, string(key))
}
