package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jason-s-yu/cluesheet/catalog"
	"github.com/jason-s-yu/cluesheet/engine"
	"github.com/jason-s-yu/cluesheet/internal/session"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Sheet colours.
var C = struct {
	Yes, No, Maybe, Header *color.Color
}{
	Yes:    color.New(color.FgGreen),
	No:     color.New(color.FgRed),
	Maybe:  color.New(color.FgYellow),
	Header: color.New(color.FgWhite, color.Bold),
}

// suspectColor returns the printing colour for a #rrggbb theme colour.
func suspectColor(hex string) *color.Color {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(hex) != 7 {
		return color.New(color.Reset)
	}
	return color.RGB(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff))
}

// cell renders one player's knowledge of one card. Open slots list the
// guess groups they belong to; a trailing * marks a card the player asked
// about.
func cell(s engine.Slot) string {
	var out string
	switch s.Ownership {
	case engine.Owned:
		out = C.Yes.Sprint("✔")
		if s.RevealedToSelf {
			out = C.Yes.Sprint("✔ shown")
		}
	case engine.KnownNotOwned:
		out = C.No.Sprint("✖")
	default:
		mark := "?"
		if len(s.Groups) > 0 {
			ids := make([]string, len(s.Groups))
			for i, id := range s.Groups {
				ids[i] = strconv.Itoa(id)
			}
			mark += strings.Join(ids, ",")
		}
		out = C.Maybe.Sprint(mark)
	}
	if s.UserGuessed && s.Ownership == engine.Unknown {
		out += "*"
	}
	return out
}

// renderSheet prints the sheet as one row per card and one column per
// player, in the style of a paper detective notebook.
func renderSheet(w io.Writer, v session.SheetView, theme catalog.Theme) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s | %s | last: %s", theme.Title, v.State, v.LastAction))

	header := table.Row{"Card"}
	for i, p := range v.Players {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("P%d", p.ID)
		}
		name = fmt.Sprintf("%s (%d)", name, p.HandSize)
		if p.IsCurrentTurn {
			name = C.Header.Sprint("▶ " + name)
		}
		if i == 0 {
			name += " *you*"
		}
		header = append(header, name)
	}
	header = append(header, "Solution")
	t.AppendHeader(header)

	types := []struct {
		t     engine.CardType
		names []string
		slots func(session.PlayerView) []engine.Slot
	}{
		{engine.Suspect, v.Cards.Suspects, func(p session.PlayerView) []engine.Slot { return p.Suspects }},
		{engine.Weapon, v.Cards.Weapons, func(p session.PlayerView) []engine.Slot { return p.Weapons }},
		{engine.Room, v.Cards.Rooms, func(p session.PlayerView) []engine.Slot { return p.Rooms }},
	}
	for n, ct := range types {
		if n > 0 {
			t.AppendSeparator()
		}
		solution, solved := v.Solution[ct.t]
		for i, name := range ct.names {
			label := name
			if ct.t == engine.Suspect && i < len(theme.Suspects) {
				label = suspectColor(theme.Suspects[i].Color).Sprint(name)
			}
			row := table.Row{label}
			for _, p := range v.Players {
				row = append(row, cell(ct.slots(p)[i]))
			}
			switch {
			case solved && solution == i:
				row = append(row, C.Yes.Sprint("✔"))
			case solved:
				row = append(row, C.No.Sprint("✖"))
			default:
				row = append(row, "")
			}
			t.AppendRow(row)
		}
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = false
	t.Style().Title.Align = text.AlignCenter
	t.Style().Format.Header = text.FormatDefault
	t.Render()
}
