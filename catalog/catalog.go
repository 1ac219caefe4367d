// Package catalog holds the built-in card themes. Each Theme satisfies
// engine.Catalog.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jason-s-yu/cluesheet/engine"
	"gopkg.in/yaml.v3"
)

// DefaultTheme is used when no theme is chosen.
const DefaultTheme = "classic"

// ErrUnknownTheme is returned for a theme id that is not in the catalog.
var ErrUnknownTheme = errors.New("unknown theme")

//go:embed themes.yaml
var themesYAML []byte

// Suspect is one suspect card. ShortName labels the sheet row.
type Suspect struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	ShortName string `yaml:"shortName" json:"shortName"`
	Color     string `yaml:"color" json:"color"` // #rrggbb
}

// Theme is one edition of the board game.
type Theme struct {
	ID       string    `yaml:"id" json:"id"`
	Title    string    `yaml:"title" json:"title"`
	Order    int       `yaml:"order" json:"order"`
	Suspects []Suspect `yaml:"suspects" json:"suspects"`
	Weapons  []string  `yaml:"weapons" json:"weapons"`
	Rooms    []string  `yaml:"rooms" json:"rooms"`
}

// ThemeID implements engine.Catalog.
func (t Theme) ThemeID() string { return t.ID }

// Cards implements engine.Catalog. Suspects are listed by short name.
func (t Theme) Cards(ct engine.CardType) []string {
	switch ct {
	case engine.Suspect:
		names := make([]string, len(t.Suspects))
		for i, s := range t.Suspects {
			names[i] = s.ShortName
		}
		return names
	case engine.Weapon:
		return slices.Clone(t.Weapons)
	case engine.Room:
		return slices.Clone(t.Rooms)
	}
	return nil
}

// CardName returns the display name of c, or its String form if c is not
// in the theme.
func (t Theme) CardName(c engine.CardRef) string {
	names := t.Cards(c.Type)
	if c.Index < 0 || c.Index >= len(names) {
		return c.String()
	}
	return names[c.Index]
}

type file struct {
	Colors map[string]string `yaml:"colors"`
	Themes []Theme           `yaml:"themes"`
}

var load = sync.OnceValues(func() ([]Theme, error) { return parse(themesYAML) })

func parse(data []byte) ([]Theme, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse themes: %w", err)
	}
	seen := make(map[string]bool, len(f.Themes))
	for i := range f.Themes {
		th := &f.Themes[i]
		if th.ID == "" || seen[th.ID] {
			return nil, fmt.Errorf("parse themes: missing or duplicate id %q", th.ID)
		}
		seen[th.ID] = true
		for j := range th.Suspects {
			s := &th.Suspects[j]
			hex, ok := f.Colors[s.Color]
			if !ok {
				return nil, fmt.Errorf("parse themes: %s: unknown color %q", s.ID, s.Color)
			}
			s.Color = hex
		}
	}
	slices.SortStableFunc(f.Themes, func(a, b Theme) int { return a.Order - b.Order })
	return f.Themes, nil
}

// Themes returns every built-in theme in display order.
func Themes() []Theme {
	themes, err := load()
	if err != nil {
		// The catalog is embedded; a parse failure is a build defect.
		panic(err)
	}
	return slices.Clone(themes)
}

// Get returns the theme with the given id.
func Get(id string) (Theme, error) {
	for _, t := range Themes() {
		if t.ID == id {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, id)
}

// IDs lists the built-in theme ids in display order.
func IDs() []string {
	themes := Themes()
	ids := make([]string, len(themes))
	for i, t := range themes {
		ids[i] = t.ID
	}
	return ids
}
