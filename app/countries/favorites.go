package countries

import (
	"encoding/json"
	"sort"
)

// FavoriteSet holds favorited country codes. Values are treated as
// immutable: Toggle returns a fresh set.
type FavoriteSet map[string]struct{}

// NewFavoriteSet builds a set from codes
func NewFavoriteSet(codes ...string) FavoriteSet {
	s := make(FavoriteSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s FavoriteSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

func (s FavoriteSet) Len() int {
	return len(s)
}

// Toggle returns a copy with code added, or removed when already present
func (s FavoriteSet) Toggle(code string) FavoriteSet {
	out := make(FavoriteSet, len(s)+1)
	for c := range s {
		out[c] = struct{}{}
	}
	if _, ok := out[code]; ok {
		delete(out, code)
	} else {
		out[code] = struct{}{}
	}
	return out
}

// Codes returns the members sorted
func (s FavoriteSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// MarshalJSON encodes the set as a sorted array of codes
func (s FavoriteSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Codes())
}

// UnmarshalJSON decodes an array of codes
func (s *FavoriteSet) UnmarshalJSON(data []byte) error {
	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return err
	}
	*s = NewFavoriteSet(codes...)
	return nil
}
