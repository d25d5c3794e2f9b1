package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	inputFile string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "mangadex-import",
	Short: "Import a MyAnimeList manga list into MangaDex reading statuses",
	Long: `mangadex-import reads a MyAnimeList XML export, searches MangaDex for
every title, picks the closest match and sets your reading status on it.

Credentials come from MANGADEX_GRANT_TYPE, MANGADEX_USERNAME, MANGADEX_PASSWORD,
MANGADEX_CLIENT_ID and MANGADEX_CLIENT_SECRET, or from the [mangadex] section of
the INI file given with --config.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgFile,
		"config",
		"c",
		"",
		"path to INI credentials file",
	)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (auto, console, json)")
}

func addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(
		&inputFile,
		"input",
		"i",
		"",
		"path to MyAnimeList XML export",
	)
	cmd.MarkFlagRequired("input")
}
