package preferences

import "context"

// Stored keys
const (
	KeyFavorites = "cc_favorites"
	KeyTheme     = "cc_theme"
	KeySort      = "cc_sort"
)

// Store is a flat key/value preference blob. Get returns
// models.ErrPreferenceNotFound for a key that was never set.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// ClientStore keeps one preference blob per client
type ClientStore interface {
	Get(ctx context.Context, clientID, key string) (string, error)
	Set(ctx context.Context, clientID, key, value string) error
	// All returns every value stored for a client, keyed by preference key
	All(ctx context.Context, clientID string) (map[string]string, error)
	// Purge drops everything stored for a client
	Purge(ctx context.Context, clientID string) error
}
