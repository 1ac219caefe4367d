// Command cluesheet runs the deduction sheet server and its offline tools.
package main

import (
	"fmt"
	"os"

	"github.com/jason-s-yu/cluesheet/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	envFile string
	cfg     config.Config
	log     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cluesheet",
	Short: "A deduction sheet for Clue-style board games",
	Long: `cluesheet tracks who might hold which card as a game of Clue is played,
and derives everything the answers so far prove.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(envFile); err != nil {
			return err
		}
		if log, err = cfg.Logger(); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "optional dotenv file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
