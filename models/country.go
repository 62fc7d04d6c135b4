package models

import (
	"strings"
	"unicode"
)

// Currency is a currency entry of a country record
type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

// Country is an immutable country record as held in the master list.
// Optional provider fields are represented by empty strings and a nil Area.
type Country struct {
	CommonName   string              `json:"common_name"`
	OfficialName string              `json:"official_name"`
	Code         string              `json:"code"` // ISO 3166-1 alpha-2
	Region       string              `json:"region"`
	Subregion    string              `json:"subregion,omitempty"`
	Capital      string              `json:"capital,omitempty"`
	Population   int64               `json:"population"`
	Area         *float64            `json:"area,omitempty"` // km²
	FlagEmoji    string              `json:"flag"`
	Languages    map[string]string   `json:"languages,omitempty"`
	Currencies   map[string]Currency `json:"currencies,omitempty"`
	Timezones    []string            `json:"timezones,omitempty"`
}

// AreaValue returns the area, treating a missing value as zero
func (c *Country) AreaValue() float64 {
	if c.Area == nil {
		return 0
	}
	return *c.Area
}

// HasCapital reports whether the provider supplied a capital
func (c *Country) HasCapital() bool {
	return c.Capital != ""
}

// Validate performs validation on the country record
func (c *Country) Validate() error {
	if strings.TrimSpace(c.CommonName) == "" {
		return ErrInvalidCountryName
	}
	if !IsCountryCode(c.Code) {
		return ErrInvalidCountryCode
	}
	if c.Population < 0 {
		return ErrInvalidPopulation
	}
	if c.Area != nil && *c.Area < 0 {
		return ErrInvalidArea
	}
	return nil
}

// IsCountryCode reports whether code is a two-letter ASCII code
func IsCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ProviderName mirrors the nested "name" object of the REST Countries schema
type ProviderName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// ProviderCountry is the wire shape served by the REST Countries v3.1 API.
// Every field except name and cca2 may be absent.
type ProviderCountry struct {
	Name       ProviderName        `json:"name"`
	Capital    []string            `json:"capital"`
	Flag       string              `json:"flag"`
	Region     string              `json:"region"`
	Subregion  string              `json:"subregion"`
	CCA2       string              `json:"cca2"`
	Population int64               `json:"population"`
	Area       *float64            `json:"area"`
	Languages  map[string]string   `json:"languages"`
	Currencies map[string]Currency `json:"currencies"`
	Timezones  []string            `json:"timezones"`
}

// ToCountry converts the wire record into a Country
func (p *ProviderCountry) ToCountry() Country {
	c := Country{
		CommonName:   p.Name.Common,
		OfficialName: p.Name.Official,
		Code:         strings.ToUpper(p.CCA2),
		Region:       p.Region,
		Subregion:    p.Subregion,
		Population:   p.Population,
		FlagEmoji:    p.Flag,
		Languages:    p.Languages,
		Currencies:   p.Currencies,
		Timezones:    p.Timezones,
	}
	if len(p.Capital) > 0 {
		c.Capital = p.Capital[0]
	}
	if p.Area != nil {
		area := *p.Area
		c.Area = &area
	}
	return c
}

// ToCountryList converts a slice of wire records
func ToCountryList(records []ProviderCountry) []Country {
	countries := make([]Country, len(records))
	for i := range records {
		countries[i] = records[i].ToCountry()
	}
	return countries
}
