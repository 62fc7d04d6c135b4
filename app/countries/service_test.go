package countries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/atlas/internal/cache"
	"github.com/joefazee/atlas/models"
	"github.com/joefazee/atlas/tests/mocks"
)

func unsorted() []models.Country {
	list := sampleMaster()
	list[0], list[len(list)-1] = list[len(list)-1], list[0]
	return list
}

func TestService_Master(t *testing.T) {
	ctx := context.Background()

	t.Run("Sorted and validated", func(t *testing.T) {
		provider := new(mocks.MockProvider)
		list := append(unsorted(), models.Country{CommonName: "", Code: "ZZ"}, models.Country{CommonName: "Bad", Code: "B1"})
		provider.On("FetchAllCountries", ctx).Return(list, nil).Once()

		svc := NewService(ServiceOptions{Provider: provider})
		master, err := svc.Master(ctx)
		require.NoError(t, err)
		assert.Equal(t, names(sampleMaster()), names(master))

		// cached
		_, err = svc.Master(ctx)
		require.NoError(t, err)
		provider.AssertNumberOfCalls(t, "FetchAllCountries", 1)
	})

	t.Run("Failure is retried", func(t *testing.T) {
		provider := new(mocks.MockProvider)
		provider.On("FetchAllCountries", ctx).Return(nil, &FetchError{StatusCode: 500}).Once()
		provider.On("FetchAllCountries", ctx).Return(sampleMaster(), nil).Once()

		svc := NewService(ServiceOptions{Provider: provider})
		_, err := svc.Master(ctx)
		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)

		master, err := svc.Master(ctx)
		require.NoError(t, err)
		assert.Len(t, master, 10)
		provider.AssertExpectations(t)
	})
}

func TestService_ListCountries(t *testing.T) {
	ctx := context.Background()
	provider := new(mocks.MockProvider)
	provider.On("FetchAllCountries", ctx).Return(sampleMaster(), nil)
	svc := NewService(ServiceOptions{Provider: provider})

	t.Run("Region and sort", func(t *testing.T) {
		res, err := svc.ListCountries(ctx, &ListCountriesRequest{Region: "Europe", Sort: "population-desc", Page: 1}, nil)
		require.NoError(t, err)
		require.Len(t, res.Items, 4)
		assert.Equal(t, "Germany", res.Items[0].Country.CommonName)
		assert.Equal(t, int64(4), res.Meta.Total)
		assert.Equal(t, 1, res.Meta.TotalPages)
		assert.Equal(t, "Page 1 of 1", res.Label)
		assert.False(t, res.Meta.HasNext)
	})

	t.Run("Favorites only", func(t *testing.T) {
		res, err := svc.ListCountries(ctx, &ListCountriesRequest{FavoritesOnly: true, Page: 1}, NewFavoriteSet("JP"))
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.True(t, res.Items[0].IsFavorited)
	})

	t.Run("Empty", func(t *testing.T) {
		res, err := svc.ListCountries(ctx, &ListCountriesRequest{Search: "zzz", Page: 1}, nil)
		require.NoError(t, err)
		assert.True(t, res.Empty)
		assert.Equal(t, "Page 0 of 0", res.Label)
		assert.Empty(t, res.Items)
	})

	t.Run("Invalid sort", func(t *testing.T) {
		_, err := svc.ListCountries(ctx, &ListCountriesRequest{Sort: "nope", Page: 1}, nil)
		assert.ErrorIs(t, err, models.ErrInvalidSortKey)
	})
}

func TestService_Regions(t *testing.T) {
	ctx := context.Background()
	provider := new(mocks.MockProvider)
	provider.On("FetchAllCountries", ctx).Return(sampleMaster(), nil)

	regions, err := NewService(ServiceOptions{Provider: provider}).Regions(ctx)
	require.NoError(t, err)
	assert.Contains(t, regions, "Europe")
	assert.Len(t, regions, 5)
}

func TestService_GetCountryDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		provider := new(mocks.MockProvider)
		jp := country("Japan", "JP", "Asia", "Tokyo", 125836021, area(377930))
		provider.On("FetchCountryDetail", ctx, "JP").Return(&jp, nil)

		d, err := NewService(ServiceOptions{Provider: provider}).GetCountryDetail(ctx, "jp")
		require.NoError(t, err)
		assert.Equal(t, "Japan", d.CommonName)
		assert.Equal(t, "+81", d.CallingCode)
	})

	t.Run("Invalid code", func(t *testing.T) {
		provider := new(mocks.MockProvider)
		_, err := NewService(ServiceOptions{Provider: provider}).GetCountryDetail(ctx, "JPN")
		assert.ErrorIs(t, err, models.ErrInvalidCountryCode)
		provider.AssertNotCalled(t, "FetchCountryDetail", mock.Anything, mock.Anything)
	})

	t.Run("Provider error", func(t *testing.T) {
		provider := new(mocks.MockProvider)
		provider.On("FetchCountryDetail", ctx, "JP").Return(nil, &DetailFetchError{Code: "JP"})

		_, err := NewService(ServiceOptions{Provider: provider}).GetCountryDetail(ctx, "JP")
		var detailErr *DetailFetchError
		assert.ErrorAs(t, err, &detailErr)
	})
}

func TestService_Session(t *testing.T) {
	ctx := context.Background()
	provider := new(mocks.MockProvider)
	provider.On("FetchAllCountries", ctx).Return(sampleMaster(), nil)

	stored := map[string]*memoryPreferences{
		"client-1": {favorites: NewFavoriteSet("FR"), sort: SortAreaDesc},
	}
	factory := func(clientID string) Preferences {
		if p, ok := stored[clientID]; ok {
			return p
		}
		p := &memoryPreferences{}
		stored[clientID] = p
		return p
	}

	registry := cache.NewMemoryCache[*Session]()
	defer registry.Stop()
	svc := NewService(ServiceOptions{Provider: provider, Preferences: factory, Sessions: registry})

	s1, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, s1.Favorites().Contains("FR"))
	assert.Equal(t, SortAreaDesc, s1.Query().SortKey)

	again, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)
	assert.Same(t, s1, again)

	s2, err := svc.Session(ctx, "client-2")
	require.NoError(t, err)
	assert.NotSame(t, s1, s2)
	assert.Equal(t, 0, s2.Favorites().Len())
	assert.Equal(t, SortNameAsc, s2.Query().SortKey)

	_, err = svc.Session(ctx, "")
	assert.ErrorIs(t, err, models.ErrInvalidClientID)
}

func TestService_SessionMasterFailure(t *testing.T) {
	ctx := context.Background()
	provider := new(mocks.MockProvider)
	provider.On("FetchAllCountries", ctx).Return(nil, &FetchError{StatusCode: 502})

	_, err := NewService(ServiceOptions{Provider: provider}).Session(ctx, "client-1")
	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestService_SessionLookupDuringColdLoad(t *testing.T) {
	ctx := context.Background()
	release := make(chan time.Time)
	provider := new(mocks.MockProvider)
	provider.On("FetchAllCountries", ctx).WaitUntil(release).Return(sampleMaster(), nil).Once()

	registry := cache.NewMemoryCache[*Session]()
	defer registry.Stop()
	existing := NewSession(sampleMaster(), SessionOptions{})
	defer existing.Close()
	require.NoError(t, registry.Set(ctx, "client-1", existing, time.Minute))

	svc := NewService(ServiceOptions{Provider: provider, Sessions: registry})

	loaded := make(chan *Session, 2)
	for i := 0; i < 2; i++ {
		go func() {
			sess, err := svc.Session(ctx, "client-2")
			assert.NoError(t, err)
			loaded <- sess
		}()
	}

	// client-2 is stuck on the provider; client-1 must still be served
	done := make(chan *Session, 1)
	go func() {
		sess, _ := svc.Session(ctx, "client-1")
		done <- sess
	}()
	select {
	case sess := <-done:
		assert.Same(t, existing, sess)
	case <-time.After(time.Second):
		t.Fatal("session lookup blocked behind the master load")
	}

	close(release)
	first, second := <-loaded, <-loaded
	assert.Same(t, first, second, "concurrent starts for one client share a session")
	provider.AssertExpectations(t)
}

func TestService_EvictedSessionIsClosed(t *testing.T) {
	ctx := context.Background()
	provider := new(mocks.MockProvider)
	provider.On("FetchAllCountries", ctx).Return(sampleMaster(), nil)

	registry := cache.NewMemoryCacheWithOptions[*Session](4, 5*time.Millisecond)
	defer registry.Stop()
	svc := NewService(ServiceOptions{
		Provider:     provider,
		Sessions:     registry,
		SessionTTL:   10 * time.Millisecond,
		SuggestDelay: time.Hour,
	})

	sess, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, sess.SetInput("al").Pending)

	assert.Eventually(t, func() bool {
		return !sess.Suggestions().Pending
	}, time.Second, 5*time.Millisecond)
}
