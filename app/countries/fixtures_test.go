package countries

import (
	"context"
	"fmt"
	"sync"

	"github.com/joefazee/atlas/models"
)

func area(f float64) *float64 {
	return &f
}

// flagOf builds the regional indicator emoji for a two-letter code
func flagOf(code string) string {
	runes := make([]rune, 0, 2)
	for _, r := range code {
		runes = append(runes, r-'A'+regionalIndicatorA)
	}
	return string(runes)
}

func country(name, code, region, capital string, population int64, a *float64) models.Country {
	return models.Country{
		CommonName: name,
		Code:       code,
		Region:     region,
		Capital:    capital,
		Population: population,
		Area:       a,
		FlagEmoji:  flagOf(code),
	}
}

// sampleMaster is already in name order
func sampleMaster() []models.Country {
	return []models.Country{
		country("Afghanistan", "AF", "Asia", "Kabul", 40218234, area(652230)),
		country("Åland Islands", "AX", "Europe", "Mariehamn", 29458, area(1580)),
		country("Albania", "AL", "Europe", "Tirana", 2837743, area(28748)),
		country("Antarctica", "AQ", "Antarctic", "", 1000, nil),
		country("Brazil", "BR", "Americas", "Brasília", 212559409, area(8515767)),
		country("France", "FR", "Europe", "Paris", 67391582, area(551695)),
		country("Germany", "DE", "Europe", "Berlin", 83240525, area(357114)),
		country("Japan", "JP", "Asia", "Tokyo", 125836021, area(377930)),
		country("Nigeria", "NG", "Africa", "Abuja", 206139587, area(923768)),
		country("Paraguay", "PY", "Americas", "Asunción", 7132530, area(406752)),
	}
}

// bigMaster returns n synthetic countries named C000.. in name order
func bigMaster(n int) []models.Country {
	list := make([]models.Country, n)
	for i := range list {
		code := fmt.Sprintf("%c%c", 'A'+i/26%26, 'A'+i%26)
		list[i] = country(fmt.Sprintf("C%03d", i), code, "Europe", "", int64(i), nil)
	}
	return list
}

func names(list []models.Country) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].CommonName
	}
	return out
}

// memoryPreferences is an in-memory Preferences
type memoryPreferences struct {
	mu        sync.Mutex
	favorites FavoriteSet
	sort      SortKey
	saveErr   error
	saves     int
}

func (m *memoryPreferences) Favorites(_ context.Context) (FavoriteSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.favorites == nil {
		return NewFavoriteSet(), nil
	}
	return m.favorites, nil
}

func (m *memoryPreferences) SaveFavorites(_ context.Context, f FavoriteSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.favorites = f
	return nil
}

func (m *memoryPreferences) Sort(_ context.Context) (SortKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sort == "" {
		return DefaultSortKey, nil
	}
	return m.sort, nil
}

func (m *memoryPreferences) SetSort(_ context.Context, k SortKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sort = k
	return nil
}
