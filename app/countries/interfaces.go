package countries

import (
	"context"

	"github.com/joefazee/atlas/models"
)

// Provider is the remote source of country records
type Provider interface {
	FetchAllCountries(ctx context.Context) ([]models.Country, error)
	FetchCountryDetail(ctx context.Context, code string) (*models.Country, error)
}

// Preferences persists the per-client settings a session reads and writes
type Preferences interface {
	Favorites(ctx context.Context) (FavoriteSet, error)
	SaveFavorites(ctx context.Context, favorites FavoriteSet) error
	Sort(ctx context.Context) (SortKey, error)
	SetSort(ctx context.Context, key SortKey) error
}

// PreferencesFactory returns the preferences of one client
type PreferencesFactory func(clientID string) Preferences

// Service defines the interface for country business logic
type Service interface {
	// Master returns the master list, loading it on first use
	Master(ctx context.Context) ([]models.Country, error)
	ListCountries(ctx context.Context, req *ListCountriesRequest, favorites FavoriteSet) (*ListResult, error)
	Regions(ctx context.Context) ([]string, error)
	GetCountryDetail(ctx context.Context, code string) (*CountryDetail, error)
	// Session returns the session of clientID, creating it when missing or expired
	Session(ctx context.Context, clientID string) (*Session, error)
}
