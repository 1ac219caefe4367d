package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jason-s-yu/cluesheet/catalog"
	"github.com/jason-s-yu/cluesheet/engine"
	"github.com/jason-s-yu/cluesheet/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// script is a replay file: a roster and the commands played on it.
type script struct {
	Theme     string            `json:"theme"`
	Seats     []engine.Seat     `json:"seats"`
	FirstSeat int               `json:"firstSeat"`
	Commands  []session.Command `json:"commands"`
}

var keepGoing bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Apply a JSON command script to a fresh sheet and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var sc script
		if err := json.Unmarshal(data, &sc); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		if sc.Theme == "" {
			sc.Theme = cfg.Theme
		}
		v, theme, err := replay(log, sc, keepGoing)
		if err != nil {
			return err
		}
		renderSheet(cmd.OutOrStdout(), v, theme)
		return nil
	},
}

func init() {
	replayCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "log rejected commands and continue")
}

// replay runs every command of sc in order. A rejected command stops the
// replay unless keepGoing is set.
func replay(log *logrus.Logger, sc script, keepGoing bool) (session.SheetView, catalog.Theme, error) {
	theme, err := catalog.Get(sc.Theme)
	if err != nil {
		return session.SheetView{}, catalog.Theme{}, err
	}
	s, err := session.New(log, theme, sc.Seats, sc.FirstSeat)
	if err != nil {
		return session.SheetView{}, catalog.Theme{}, err
	}
	for i, cmd := range sc.Commands {
		if _, err := s.Apply(cmd); err != nil {
			if !keepGoing {
				return session.SheetView{}, catalog.Theme{}, fmt.Errorf("command %d (%s): %w", i+1, cmd.Type, err)
			}
			log.WithField("index", i+1).WithError(err).Warn("skipping rejected command")
		}
	}
	return s.View(), s.Theme(), nil
}
