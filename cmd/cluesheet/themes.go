package main

import (
	"fmt"
	"io"

	"github.com/jason-s-yu/cluesheet/catalog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in card themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderThemes(cmd.OutOrStdout(), catalog.Themes(), cfg.Theme)
		return nil
	},
}

func renderThemes(w io.Writer, themes []catalog.Theme, current string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Title", "Suspects", "Weapons", "Rooms", ""})
	for _, th := range themes {
		mark := ""
		if th.ID == current {
			mark = "default"
		}
		t.AppendRow(table.Row{th.ID, th.Title, len(th.Suspects), len(th.Weapons), len(th.Rooms), mark})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Fprintln(w)
}
