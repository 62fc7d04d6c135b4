package countries

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joefazee/atlas/internal/formatter"
	"github.com/joefazee/atlas/models"
)

const notAvailable = "N/A"

// CountryDetail is the presentation of a single country, as shown in the detail modal
type CountryDetail struct {
	Code         string `json:"code"`
	CommonName   string `json:"common_name"`
	OfficialName string `json:"official_name"`
	FlagURL      string `json:"flag_url"`
	Capital      string `json:"capital"`
	Region       string `json:"region"`
	Subregion    string `json:"subregion"`
	Population   string `json:"population"`
	Area         string `json:"area"`
	Density      string `json:"density"`
	Languages    string `json:"languages"`
	Currencies   string `json:"currencies"`
	Timezones    string `json:"timezones"`
	CallingCode  string `json:"calling_code"`
}

// NewCountryDetail formats a provider record for display. Missing optional
// values read "N/A".
func NewCountryDetail(c *models.Country) *CountryDetail {
	d := &CountryDetail{
		Code:         c.Code,
		CommonName:   c.CommonName,
		OfficialName: orNA(c.OfficialName),
		FlagURL:      DetailFlagPlaceholderURL,
		Capital:      orNA(c.Capital),
		Region:       c.Region,
		Subregion:    orNA(c.Subregion),
		Population:   formatter.Integer(c.Population),
		Area:         notAvailable,
		Density:      notAvailable,
		Languages:    notAvailable,
		Currencies:   notAvailable,
		Timezones:    notAvailable,
		CallingCode:  orNA(formatter.CallingCode(c.Code)),
	}

	if c.Code != "" {
		d.FlagURL = fmt.Sprintf(flagPNGURL, strings.ToLower(c.Code))
	}

	if area := c.AreaValue(); area > 0 {
		d.Area = formatter.Decimal(area, 3) + " km²"
		d.Density = PopulationDensity(c.Population, area).StringFixed(2) + " /km²"
	}

	if len(c.Languages) > 0 {
		d.Languages = strings.Join(sortedValues(c.Languages), ", ")
	}

	if len(c.Currencies) > 0 {
		codes := make([]string, 0, len(c.Currencies))
		for code := range c.Currencies {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		parts := make([]string, 0, len(codes))
		for _, code := range codes {
			cur := c.Currencies[code]
			parts = append(parts, fmt.Sprintf("%s (%s)", cur.Name, cur.Symbol))
		}
		d.Currencies = strings.Join(parts, ", ")
	}

	if len(c.Timezones) > 0 {
		d.Timezones = strings.Join(c.Timezones, ", ")
	}

	return d
}

// PopulationDensity returns inhabitants per km², rounded to two places
func PopulationDensity(population int64, area float64) decimal.Decimal {
	if area <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(population).Div(decimal.NewFromFloat(area)).Round(2)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// sortedValues returns map values ordered by key
func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = m[k]
	}
	return values
}
