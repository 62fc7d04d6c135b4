package countries

import (
	"strings"

	"github.com/joefazee/atlas/app/api"
	"github.com/joefazee/atlas/internal/validator"
)

const (
	ListErrorMessage   = "Failed to load countries. Please refresh the page."
	DetailErrorMessage = "Failed to load country details. Please try again."

	// MaxSearchRunes caps search and suggestion input after sanitising
	MaxSearchRunes = 100
)

// ListCountriesRequest is the query string of the stateless list endpoint
type ListCountriesRequest struct {
	Search        string `form:"search" binding:"omitempty,max=400"`
	Region        string `form:"region" binding:"omitempty,max=64"`
	FavoritesOnly bool   `form:"favorites_only"`
	Favorites     string `form:"favorites" binding:"omitempty,max=2048"`
	Sort          string `form:"sort"`
	Page          int    `form:"page,default=1" binding:"min=1"`
}

// FavoriteCodes splits the comma separated favorites parameter
func (r *ListCountriesRequest) FavoriteCodes() []string {
	if strings.TrimSpace(r.Favorites) == "" {
		return nil
	}
	parts := strings.Split(r.Favorites, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}

func validSortParam(sort string) bool {
	return sort == "" || validator.In(SortKey(sort), SortKeys...)
}

// Validate checks the values gin binding cannot
func (r *ListCountriesRequest) Validate(v *validator.Validator) {
	v.Check(validSortParam(r.Sort), "sort", "must be one of "+sortKeyList())
	v.Check(validator.MaxRunes(r.Region, 64), "region", "must not be more than 64 characters")
	for _, code := range r.FavoriteCodes() {
		if !validator.IsCountryCode(code) {
			v.AddError("favorites", "must be a comma separated list of two-letter codes")
			break
		}
	}
}

// ListResult is one page of the stateless list
type ListResult struct {
	Items []ViewRecord       `json:"items"`
	Meta  api.PaginationMeta `json:"meta"`
	Empty bool               `json:"empty"`
	Label string             `json:"label"`
}

// UpdateQueryRequest replaces the session query
type UpdateQueryRequest struct {
	Search        string `json:"search" binding:"omitempty,max=400"`
	Region        string `json:"region" binding:"omitempty,max=64"`
	FavoritesOnly bool   `json:"favorites_only"`
	Sort          string `json:"sort"`
}

// Validate checks the values gin binding cannot
func (r *UpdateQueryRequest) Validate(v *validator.Validator) {
	v.Check(validSortParam(r.Sort), "sort", "must be one of "+sortKeyList())
}

// ChangePageRequest moves the session page by Step
type ChangePageRequest struct {
	Step int `json:"step" binding:"required"`
}

// ChangePageResponse reports whether the move was accepted
type ChangePageResponse struct {
	Moved bool `json:"moved"`
	View  View `json:"view"`
}

// InputRequest carries live search box input
type InputRequest struct {
	Text string `json:"text" binding:"max=400"`
	// Immediate skips the pause and returns fresh suggestions
	Immediate bool `json:"immediate"`
}

// SelectSuggestionRequest picks one entry of the suggestion box
type SelectSuggestionRequest struct {
	Name string `json:"name" binding:"required,max=400"`
}

// FavoritesResponse lists favorite codes
type FavoritesResponse struct {
	Codes []string `json:"codes"`
}

// ToggleFavoriteResponse is returned after a heart click
type ToggleFavoriteResponse struct {
	Code      string   `json:"code"`
	Favorited bool     `json:"favorited"`
	Favorites []string `json:"favorites"`
	View      View     `json:"view"`
}

// RegionsResponse lists the region filter options
type RegionsResponse struct {
	Regions []string `json:"regions"`
}

// NewPaginationMeta derives envelope metadata from a page
func NewPaginationMeta(page Page, total int) api.PaginationMeta {
	return api.PaginationMeta{
		Page:       page.PageIndex,
		PerPage:    PageSize,
		Total:      int64(total),
		TotalPages: page.TotalPages,
		HasNext:    HasNext(page.PageIndex, page.TotalPages),
		HasPrev:    HasPrev(page.PageIndex, page.TotalPages),
		Label:      PageLabel(page.PageIndex, page.TotalPages),
	}
}

func sortKeyList() string {
	keys := make([]string, len(SortKeys))
	for i, k := range SortKeys {
		keys[i] = string(k)
	}
	return strings.Join(keys, ", ")
}
