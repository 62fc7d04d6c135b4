package countries

import (
	"fmt"
	"strings"

	"github.com/joefazee/atlas/models"
)

const (
	flagSVGURL         = "https://flagcdn.com/%s.svg"
	flagPNGURL         = "https://flagcdn.com/w320/%s.png"
	FlagPlaceholderURL = "https://via.placeholder.com/160x120?text=No+Flag"

	DetailFlagPlaceholderURL = "https://via.placeholder.com/320x240?text=No+Flag"

	regionalIndicatorA = 0x1F1E6
)

// ViewRecord decorates a country for display
type ViewRecord struct {
	Country      models.Country `json:"country"`
	IsFavorited  bool           `json:"is_favorited"`
	FlagCode     string         `json:"flag_code"`
	FlagImageURL string         `json:"flag_image_url"`
}

// FlagCode maps each regional indicator symbol of a flag emoji to its
// ASCII letter. Any other rune is shifted the same way, so only well formed
// flags give meaningful codes.
func FlagCode(flag string) string {
	if flag == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range flag {
		b.WriteRune(r - regionalIndicatorA + 'A')
	}
	return b.String()
}

// FlagImageURL returns the small flag image for a flag code, or the placeholder
func FlagImageURL(flagCode string) string {
	if flagCode == "" {
		return FlagPlaceholderURL
	}
	return fmt.Sprintf(flagSVGURL, strings.ToLower(flagCode))
}

// Project decorates page items with favorite state and flag data
func Project(items []models.Country, favorites FavoriteSet) []ViewRecord {
	records := make([]ViewRecord, len(items))
	for i := range items {
		code := FlagCode(items[i].FlagEmoji)
		records[i] = ViewRecord{
			Country:      items[i],
			IsFavorited:  favorites.Contains(items[i].Code),
			FlagCode:     code,
			FlagImageURL: FlagImageURL(code),
		}
	}
	return records
}
