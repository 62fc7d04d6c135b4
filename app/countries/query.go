package countries

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/joefazee/atlas/models"
)

// SortKey names one of the supported orderings of the filtered list
type SortKey string

const (
	SortNameAsc        SortKey = "name-asc"
	SortNameDesc       SortKey = "name-desc"
	SortPopulationDesc SortKey = "population-desc"
	SortPopulationAsc  SortKey = "population-asc"
	SortAreaDesc       SortKey = "area-desc"
	SortAreaAsc        SortKey = "area-asc"

	DefaultSortKey = SortNameAsc

	// AllRegions disables the region filter
	AllRegions = "all"
)

// SortKeys lists every accepted key in display order
var SortKeys = []SortKey{
	SortNameAsc, SortNameDesc,
	SortPopulationDesc, SortPopulationAsc,
	SortAreaDesc, SortAreaAsc,
}

// ParseSortKey validates a user supplied sort key
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", models.ErrInvalidSortKey
}

// SortKeyOrDefault is used for stored values, where garbage falls back to name-asc
func SortKeyOrDefault(s string) SortKey {
	k, err := ParseSortKey(s)
	if err != nil {
		return DefaultSortKey
	}
	return k
}

// QueryState is the combination of search text, region, favorites-only flag and sort key
type QueryState struct {
	SearchText    string  `json:"search"`
	Region        string  `json:"region"`
	FavoritesOnly bool    `json:"favorites_only"`
	SortKey       SortKey `json:"sort"`
}

// DefaultQuery is the state after a reset
func DefaultQuery() QueryState {
	return QueryState{Region: AllRegions, SortKey: DefaultSortKey}
}

// collator is not safe for concurrent use
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English)
)

// CompareNames orders two names the way the master list is ordered
func CompareNames(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// SortByName sorts countries in place, ascending by common name
func SortByName(list []models.Country) {
	sort.SliceStable(list, func(i, j int) bool {
		return CompareNames(list[i].CommonName, list[j].CommonName) < 0
	})
}

// MatchesSearch reports whether the country matches the trimmed, lower-cased needle.
// An empty needle matches everything.
func MatchesSearch(c *models.Country, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.CommonName), needle) ||
		strings.Contains(strings.ToLower(c.Code), needle) ||
		strings.Contains(strings.ToLower(c.Region), needle) ||
		strings.Contains(strings.ToLower(c.Capital), needle)
}

// NormalizeSearch trims and lower-cases raw search input
func NormalizeSearch(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ApplyQuery filters and sorts the master list. master is never modified and
// the result is never nil.
func ApplyQuery(master []models.Country, state QueryState, favorites FavoriteSet) []models.Country {
	needle := NormalizeSearch(state.SearchText)
	region := state.Region
	if region == "" {
		region = AllRegions
	}

	out := make([]models.Country, 0, len(master))
	for i := range master {
		c := &master[i]
		if !MatchesSearch(c, needle) {
			continue
		}
		if region != AllRegions && c.Region != region {
			continue
		}
		if state.FavoritesOnly && !favorites.Contains(c.Code) {
			continue
		}
		out = append(out, *c)
	}

	sortCountries(out, state.SortKey)
	return out
}

func sortCountries(list []models.Country, key SortKey) {
	var less func(a, b *models.Country) bool

	switch key {
	case SortNameAsc:
		less = func(a, b *models.Country) bool { return CompareNames(a.CommonName, b.CommonName) < 0 }
	case SortNameDesc:
		less = func(a, b *models.Country) bool { return CompareNames(b.CommonName, a.CommonName) < 0 }
	case SortPopulationDesc:
		less = func(a, b *models.Country) bool { return a.Population > b.Population }
	case SortPopulationAsc:
		less = func(a, b *models.Country) bool { return a.Population < b.Population }
	case SortAreaDesc:
		less = func(a, b *models.Country) bool { return a.AreaValue() > b.AreaValue() }
	case SortAreaAsc:
		less = func(a, b *models.Country) bool { return a.AreaValue() < b.AreaValue() }
	default:
		return
	}

	sort.SliceStable(list, func(i, j int) bool {
		return less(&list[i], &list[j])
	})
}

// Regions returns the distinct non-empty region names, sorted
func Regions(master []models.Country) []string {
	seen := make(map[string]struct{})
	regions := make([]string, 0)
	for i := range master {
		r := master[i].Region
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}
