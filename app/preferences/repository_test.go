package preferences

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/joefazee/atlas/models"
	"github.com/joefazee/atlas/tests/suites"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return NewRepository(gormDB), mock
}

func TestRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`SELECT \* FROM "preferences" WHERE client_id = \$1 AND key = \$2`).
			WillReturnRows(sqlmock.NewRows([]string{"client_id", "key", "value"}).
				AddRow("client-1", KeyTheme, "dark"))

		v, err := repo.Get(ctx, "client-1", KeyTheme)
		require.NoError(t, err)
		assert.Equal(t, "dark", v)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`SELECT \* FROM "preferences"`).
			WillReturnRows(sqlmock.NewRows([]string{"client_id", "key", "value"}))

		_, err := repo.Get(ctx, "client-1", KeyTheme)
		assert.ErrorIs(t, err, models.ErrPreferenceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`SELECT \* FROM "preferences"`).WillReturnError(assert.AnError)

		_, err := repo.Get(ctx, "client-1", KeyTheme)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestRepository_SetRejectsInvalid(t *testing.T) {
	repo, mock := newMockRepository(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Set(ctx, "", KeyTheme, "dark"), models.ErrInvalidClientID)
	assert.ErrorIs(t, repo.Set(ctx, "client-1", KeyFavorites, strings.Repeat("x", models.MaxPreferenceValueLength+1)),
		models.ErrPreferenceValueTooLong)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type PreferenceRepositoryTestSuite struct {
	suites.DatabaseSuite
	repo Repository
}

func (s *PreferenceRepositoryTestSuite) SetupSuite() {
	s.Tables = []string{"preferences"}
	s.DatabaseSuite.SetupSuite()
	s.repo = NewRepository(s.DB)
}

func TestPreferenceRepository(t *testing.T) {
	suite.Run(t, new(PreferenceRepositoryTestSuite))
}

func (s *PreferenceRepositoryTestSuite) TestSetOverwrites() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "client-1", KeyTheme, "light"))
	s.Require().NoError(s.repo.Set(ctx, "client-1", KeyTheme, "dark"))

	v, err := s.repo.Get(ctx, "client-1", KeyTheme)
	s.Require().NoError(err)
	s.Equal("dark", v)
	s.Equal(int64(1), s.CountRows("preferences"))
}

func (s *PreferenceRepositoryTestSuite) TestClientsAreSeparate() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "client-1", KeySort, "area-desc"))
	s.Require().NoError(s.repo.Set(ctx, "client-2", KeySort, "name-desc"))

	v, err := s.repo.Get(ctx, "client-2", KeySort)
	s.Require().NoError(err)
	s.Equal("name-desc", v)

	_, err = s.repo.Get(ctx, "client-3", KeySort)
	s.ErrorIs(err, models.ErrPreferenceNotFound)
}

func (s *PreferenceRepositoryTestSuite) TestListAndPurge() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "client-1", KeyTheme, "dark"))
	s.Require().NoError(s.repo.Set(ctx, "client-1", KeyFavorites, `["FR"]`))
	s.Require().NoError(s.repo.Set(ctx, "client-2", KeyTheme, "light"))

	prefs, err := s.repo.List(ctx, "client-1")
	s.Require().NoError(err)
	s.Require().Len(prefs, 2)
	s.Equal(KeyFavorites, prefs[0].Key)
	s.Equal(KeyTheme, prefs[1].Key)

	values, err := s.repo.All(ctx, "client-1")
	s.Require().NoError(err)
	s.Equal(map[string]string{KeyTheme: "dark", KeyFavorites: `["FR"]`}, values)

	s.Require().NoError(s.repo.Purge(ctx, "client-1"))
	prefs, err = s.repo.List(ctx, "client-1")
	s.Require().NoError(err)
	s.Empty(prefs)
	s.Equal(int64(1), s.CountRows("preferences"))
}

func TestRepository_All(t *testing.T) {
	ctx := context.Background()
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT \* FROM "preferences" WHERE client_id = \$1 ORDER BY key ASC`).
		WithArgs("client-1").
		WillReturnRows(sqlmock.NewRows([]string{"client_id", "key", "value"}).
			AddRow("client-1", KeySort, "area-desc").
			AddRow("client-1", KeyTheme, "dark"))

	values, err := repo.All(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeySort: "area-desc", KeyTheme: "dark"}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}
