package models

import "errors"

var (
	ErrInvalidCountryName = errors.New("invalid country name")
	ErrInvalidCountryCode = errors.New("invalid country code")
	ErrInvalidPopulation  = errors.New("population cannot be negative")
	ErrInvalidArea        = errors.New("area cannot be negative")

	ErrInvalidSortKey = errors.New("invalid sort key")
	ErrInvalidTheme   = errors.New("invalid theme")

	ErrInvalidClientID        = errors.New("invalid client ID")
	ErrInvalidPreferenceKey   = errors.New("invalid preference key")
	ErrPreferenceNotFound     = errors.New("preference not found")
	ErrPreferenceValueTooLong = errors.New("preference value too long")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")

	ErrRecordNotFound = errors.New("record not found")
)
