package preferences

import "context"

type scoped struct {
	store    ClientStore
	clientID string
}

// Scoped narrows a ClientStore to the blob of a single client
func Scoped(store ClientStore, clientID string) Store {
	return &scoped{store: store, clientID: clientID}
}

func (s *scoped) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.clientID, key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.clientID, key, value)
}
