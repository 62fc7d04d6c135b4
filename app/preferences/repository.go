package preferences

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joefazee/atlas/models"
)

// Repository is the postgres backed ClientStore
type Repository interface {
	ClientStore
	List(ctx context.Context, clientID string) ([]models.Preference, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, clientID, key string) (string, error) {
	var pref models.Preference
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND key = ?", clientID, key).
		First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.ErrPreferenceNotFound
		}
		return "", err
	}
	return pref.Value, nil
}

// Set inserts the entry or overwrites the value of an existing one
func (r *repository) Set(ctx context.Context, clientID, key, value string) error {
	pref := models.NewPreference(clientID, key, value)
	if err := pref.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(pref).Error
}

func (r *repository) List(ctx context.Context, clientID string) ([]models.Preference, error) {
	var prefs []models.Preference
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("key ASC").
		Find(&prefs).Error
	return prefs, err
}

func (r *repository) All(ctx context.Context, clientID string) (map[string]string, error) {
	prefs, err := r.List(ctx, clientID)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(prefs))
	for _, p := range prefs {
		values[p.Key] = p.Value
	}
	return values, nil
}

func (r *repository) Purge(ctx context.Context, clientID string) error {
	return models.PurgeClientPreferences(r.db.WithContext(ctx), clientID)
}
