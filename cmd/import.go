package cmd

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Another0Noob/mangadex-mal-import/internal/config"
	"github.com/Another0Noob/mangadex-mal-import/internal/importer"
	"github.com/Another0Noob/mangadex-mal-import/internal/logging"
	"github.com/Another0Noob/mangadex-mal-import/internal/mangadexapi"
	"github.com/Another0Noob/mangadex-mal-import/internal/report"
)

var (
	cleanup bool
	dryRun  bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Match every title of the export on MangaDex and set its reading status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	addInputFlag(importCmd)

	importCmd.Flags().BoolVar(&cleanup, "cleanup", false, "clear the statuses set by this run once it finishes")
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "match titles without changing anything on MangaDex")
}

func runImport(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "--- Starting MangaDex Import ---")

	cfg, err := config.Load(config.Options{
		CredentialsFile: cfgFile,
		LogLevel:        logLevel,
		LogFormat:       logFormat,
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.WithRun(
		logging.NewLogger(cmd.ErrOrStderr(), logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}),
		uuid.NewString(),
	)

	fmt.Fprintln(out, "--- Reading Manga ---")
	batches, err := readExport(inputFile)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, report.Statistics(batches))

	lock := flock.New(cfg.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another import is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn().Err(err).Str("lock", cfg.LockPath).Msg("failed to release lock")
		}
	}()

	fmt.Fprintln(out, "--- Connecting to MangaDex ---")
	client := mangadexapi.NewClient(
		mangadexapi.WithBaseURL(cfg.API.BaseURL),
		mangadexapi.WithAuthURL(cfg.API.AuthURL),
	)
	client.SetAuth(cfg.AuthForm())
	if err := client.Authenticate(ctx); err != nil {
		return err
	}

	imp := importer.New(client,
		importer.WithLogger(logger),
		importer.WithIntervals(cfg.Import.ImportInterval, cfg.Import.CleanupInterval),
		importer.WithDryRun(dryRun),
	)

	fmt.Fprintln(out, "--- Importing Manga ---")
	res, runErr := imp.Run(ctx, batches)

	fmt.Fprintln(out, report.Summary(batches, res))
	if unmatched := report.Unmatched(res.Skipped); unmatched != "" {
		fmt.Fprintln(out, "--- Unmatched Manga ---")
		fmt.Fprintln(out, unmatched)
	}
	fmt.Fprintf(out, "Successfully processed %d manga, %d failed updates, %d unmatched.\n",
		len(res.Processed), res.FailedUpdates(), len(res.Skipped))
	if runErr != nil {
		return runErr
	}

	if !cleanup {
		return nil
	}
	fmt.Fprintln(out, "--- Cleaning Up ---")
	cres, err := imp.Cleanup(ctx, res.Processed)
	fmt.Fprintf(out, "Cleared %d statuses, %d failed.\n", cres.Cleared, cres.Failed)
	return err
}
