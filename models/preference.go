package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxPreferenceValueLength bounds a stored value; a favorites list of every
// country code fits comfortably.
const MaxPreferenceValueLength = 4096

// Preference is a single key/value entry of a client's preference blob
type Preference struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ClientID  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_preferences_client_key" json:"client_id"`
	Key       string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_preferences_client_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Preference model
func (*Preference) TableName() string {
	return "preferences"
}

// BeforeCreate sets up the model before creation
func (p *Preference) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Validate performs validation on the preference model
func (p *Preference) Validate() error {
	if p.ClientID == "" {
		return ErrInvalidClientID
	}
	if p.Key == "" || len(p.Key) > 64 {
		return ErrInvalidPreferenceKey
	}
	if len(p.Value) > MaxPreferenceValueLength {
		return ErrPreferenceValueTooLong
	}
	return nil
}

// NewPreference creates a preference entry
func NewPreference(clientID, key, value string) *Preference {
	return &Preference{
		ClientID: clientID,
		Key:      key,
		Value:    value,
	}
}

// PurgeClientPreferences removes every entry stored for a client
func PurgeClientPreferences(db *gorm.DB, clientID string) error {
	return db.Where("client_id = ?", clientID).Delete(&Preference{}).Error
}
