package preferences

// ThemeRequest sets the theme
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

// ThemeResponse carries the current theme
type ThemeResponse struct {
	Theme Theme `json:"theme"`
}

// SortRequest sets the stored sort key
type SortRequest struct {
	Sort string `json:"sort" binding:"required"`
}

// SortResponse carries the stored sort key
type SortResponse struct {
	Sort string `json:"sort"`
}

// PreferencesResponse lists the raw stored values of a client
type PreferencesResponse struct {
	Values map[string]string `json:"values"`
}
