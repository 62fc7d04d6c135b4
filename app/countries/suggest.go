package countries

import "github.com/joefazee/atlas/models"

// Suggest returns the common names of every country matching text, in
// master order. Blank text yields no suggestions.
func Suggest(master []models.Country, text string) []string {
	needle := NormalizeSearch(text)
	if needle == "" {
		return []string{}
	}

	names := make([]string, 0)
	for i := range master {
		if MatchesSearch(&master[i], needle) {
			names = append(names, master[i].CommonName)
		}
	}
	return names
}

// Suggestions is the state of the suggestion box
type Suggestions struct {
	Input   string   `json:"input"`
	Visible bool     `json:"visible"`
	Pending bool     `json:"pending"`
	Names   []string `json:"names"`
}
