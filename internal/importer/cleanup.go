package importer

import (
	"context"
	"fmt"

	"github.com/Another0Noob/mangadex-mal-import/internal/mangadexapi"
)

type CleanupResult struct {
	Cleared int
	Failed  int
}

// Cleanup removes the reading status of every processed entry. Failures are
// logged and the sweep moves on; nothing is retried.
func (im *Importer) Cleanup(ctx context.Context, processed []Processed) (CleanupResult, error) {
	var res CleanupResult
	im.logger.Info().Int("entries", len(processed)).Msg("Starting cleanup")

	for _, p := range processed {
		log := im.logger.With().Str("title", p.Title).Str("id", p.ID).Logger()
		log.Info().Msg("Cleaning up")

		if im.dryRun {
			log.Info().Msg("Dry run, status not cleared")
		} else if err := im.catalog.UpdateMangaStatus(ctx, p.ID, mangadexapi.ReadingStatusNone); err != nil {
			log.Error().Err(err).Msg("Cleanup failed")
			res.Failed++
		} else {
			res.Cleared++
		}

		if err := im.pacer.Pause(ctx, im.cleanupInterval); err != nil {
			return res, fmt.Errorf("cleanup interrupted: %w", err)
		}
	}

	im.logger.Info().Int("cleared", res.Cleared).Int("failed", res.Failed).Msg("Cleanup complete")
	return res, nil
}
