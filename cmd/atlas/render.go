package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/joefazee/atlas/app/countries"
	"github.com/joefazee/atlas/app/preferences"
	"github.com/joefazee/atlas/internal/formatter"
	"github.com/joefazee/atlas/internal/validator"
)

const (
	heartOn  = "♥"
	heartOff = "♡"
)

type palette struct {
	title    lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
	muted    lipgloss.Style
	favorite lipgloss.Style
	border   lipgloss.Style
	label    lipgloss.Style
}

func paletteFor(theme preferences.Theme) palette {
	fg, muted, accent, heart := lipgloss.Color("#1F2937"), lipgloss.Color("#6B7280"), lipgloss.Color("#2563EB"), lipgloss.Color("#DC2626")
	if theme == preferences.ThemeDark {
		fg, muted, accent, heart = lipgloss.Color("#F3F4F6"), lipgloss.Color("#9CA3AF"), lipgloss.Color("#60A5FA"), lipgloss.Color("#F87171")
	}

	return palette{
		title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		header:   lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1),
		cell:     lipgloss.NewStyle().Foreground(fg).Padding(0, 1),
		muted:    lipgloss.NewStyle().Foreground(muted),
		favorite: lipgloss.NewStyle().Foreground(heart).Padding(0, 1),
		border:   lipgloss.NewStyle().Foreground(muted),
		label:    lipgloss.NewStyle().Bold(true).Foreground(fg),
	}
}

func renderList(w io.Writer, p palette, result *countries.ListResult) {
	if result.Empty {
		fmt.Fprintln(w, p.muted.Render("No countries found."))
		return
	}

	rows := make([][]string, len(result.Items))
	for i, rec := range result.Items {
		heart := heartOff
		if rec.IsFavorited {
			heart = heartOn
		}
		capital := rec.Country.Capital
		if !rec.Country.HasCapital() {
			capital = "N/A"
		}
		rows[i] = []string{
			heart,
			rec.Country.FlagEmoji,
			rec.Country.CommonName,
			rec.Country.Code,
			rec.Country.Region,
			capital,
			formatter.Integer(rec.Country.Population),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.border).
		Headers("", "", "Name", "Code", "Region", "Capital", "Population").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return p.header
			case col == 0:
				return p.favorite
			default:
				return p.cell
			}
		})

	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%s  %s\n", p.label.Render(countries.PageLabel(result.Meta.Page, result.Meta.TotalPages)),
		p.muted.Render(fmt.Sprintf("%d countries", result.Meta.Total)))
}

func renderDetail(w io.Writer, p palette, d *countries.CountryDetail, favorited bool) {
	heart := heartOff
	if favorited {
		heart = heartOn
	}
	fmt.Fprintf(w, "%s %s\n", p.favorite.UnsetPadding().Render(heart), p.title.Render(d.CommonName))
	fmt.Fprintln(w, p.muted.Render(d.OfficialName))

	fields := [][2]string{
		{"Code", d.Code},
		{"Capital", d.Capital},
		{"Region", d.Region},
		{"Subregion", d.Subregion},
		{"Population", d.Population},
		{"Area", d.Area},
		{"Density", d.Density},
		{"Languages", d.Languages},
		{"Currencies", d.Currencies},
		{"Timezones", d.Timezones},
		{"Calling code", d.CallingCode},
		{"Flag", d.FlagURL},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%s %s\n", p.label.Width(14).Render(f[0]), f[1])
	}
}

func renderLines(w io.Writer, p palette, title string, lines []string) {
	fmt.Fprintln(w, p.title.Render(title))
	if len(lines) == 0 {
		fmt.Fprintln(w, p.muted.Render("none"))
		return
	}
	for _, l := range lines {
		fmt.Fprintln(w, "  "+l)
	}
}

// validationError flattens collected field errors in a stable order
func validationError(v *validator.Validator) error {
	keys := make([]string, 0, len(v.Errors))
	for k := range v.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("--%s %s", k, v.Errors[k])
	}
	return fmt.Errorf("invalid flags: %s", strings.Join(parts, "; "))
}
