// Package importer drives a categorized MAL export through catalog search,
// title matching and status updates, one entry at a time.
package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Another0Noob/mangadex-mal-import/internal/mangadexapi"
	"github.com/Another0Noob/mangadex-mal-import/internal/match"
)

const (
	DefaultImportInterval  = 250 * time.Millisecond
	DefaultCleanupInterval = 200 * time.Millisecond
	searchLimit            = 100
)

// Catalog is the part of the MangaDex API the importer uses.
type Catalog interface {
	GetMangaList(ctx context.Context, qp mangadexapi.QueryParams) ([]mangadexapi.Manga, error)
	UpdateMangaStatus(ctx context.Context, id string, status mangadexapi.ReadingStatus) error
}

// SkipReason says why an entry was not matched.
type SkipReason string

const (
	SkipSearchFailed   SkipReason = "search failed"
	SkipNoCandidates   SkipReason = "no candidates"
	SkipBelowThreshold SkipReason = "similarity too low"
)

// Processed is an entry whose best candidate was accepted. Updated is false
// when the status update failed or was not sent.
type Processed struct {
	Title      string
	ID         string
	Status     Category
	Similarity float64
	Updated    bool
}

// Skipped is an entry that was not matched, with the closest rejected title.
type Skipped struct {
	Title    string
	Category Category
	Reason   SkipReason
	// Closest is the nearest rejected title and its edit distance, or -1.
	Closest  string
	Distance int
}

// Result is the outcome of a Run.
type Result struct {
	Processed []Processed
	Skipped   []Skipped
	DryRun    bool
}

// FailedUpdates counts accepted entries whose status update did not succeed.
func (r Result) FailedUpdates() int {
	if r.DryRun {
		return 0
	}
	n := 0
	for _, p := range r.Processed {
		if !p.Updated {
			n++
		}
	}
	return n
}

// Importer walks the categorized batches one entry at a time.
type Importer struct {
	catalog         Catalog
	pacer           Pacer
	logger          zerolog.Logger
	importInterval  time.Duration
	cleanupInterval time.Duration
	dryRun          bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithPacer replaces the timer used between remote calls.
func WithPacer(p Pacer) Option {
	return func(im *Importer) { im.pacer = p }
}

// WithLogger sets the logger, zerolog.Nop by default.
func WithLogger(l zerolog.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// WithIntervals sets the pause after each import entry and each cleanup item.
func WithIntervals(importEvery, cleanupEvery time.Duration) Option {
	return func(im *Importer) {
		im.importInterval = importEvery
		im.cleanupInterval = cleanupEvery
	}
}

// WithDryRun matches entries without changing anything on the server.
func WithDryRun(dryRun bool) Option {
	return func(im *Importer) { im.dryRun = dryRun }
}

// New returns an Importer that searches and updates through catalog.
func New(catalog Catalog, opts ...Option) *Importer {
	im := &Importer{
		catalog:         catalog,
		pacer:           TimerPacer(),
		logger:          zerolog.Nop(),
		importInterval:  DefaultImportInterval,
		cleanupInterval: DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Run processes the batches in order. Search and update failures are logged
// and never stop the run; an error is returned only when ctx ends, together
// with what was done so far.
func (im *Importer) Run(ctx context.Context, batches []Batch) (Result, error) {
	res := Result{DryRun: im.dryRun}

	for _, batch := range batches {
		log := im.logger.With().Str("category", string(batch.Category)).Logger()
		log.Info().Int("entries", len(batch.Entries)).Msgf("Processing %s category", batch.Category)

		for i, entry := range batch.Entries {
			log.Info().
				Int("current", i+1).
				Int("total", len(batch.Entries)).
				Msg(progressLine(i+1, len(batch.Entries), entry.Title))

			p, skip := im.processEntry(ctx, log.With().Str("title", entry.Title).Logger(), entry)
			if skip != nil {
				res.Skipped = append(res.Skipped, *skip)
			} else {
				res.Processed = append(res.Processed, p)
			}

			if err := im.pacer.Pause(ctx, im.importInterval); err != nil {
				return res, fmt.Errorf("import interrupted: %w", err)
			}
		}
	}

	im.logger.Info().
		Int("processed", len(res.Processed)).
		Int("skipped", len(res.Skipped)).
		Msgf("Successfully processed %d manga", len(res.Processed))
	return res, nil
}

func (im *Importer) processEntry(ctx context.Context, log zerolog.Logger, entry Entry) (Processed, *Skipped) {
	title := match.NormalizeTitle(entry.Title)
	log.Debug().Str("tokens", strings.Join(title.Tokens, ", ")).Msg("Searching")

	list, err := im.catalog.GetMangaList(ctx, mangadexapi.QueryParams{
		Limit: searchLimit,
		Title: title.Query(entry.Title),
	})
	if err != nil {
		log.Error().Err(err).Msg("Search failed")
		return Processed{}, &Skipped{Title: entry.Title, Category: entry.Category, Reason: SkipSearchFailed, Distance: -1}
	}

	cands := match.CandidatesFromManga(list)
	ranked := match.RankTitle(title, cands)
	best, ok := match.Best(ranked)
	if !ok {
		skip := &Skipped{Title: entry.Title, Category: entry.Category, Reason: SkipBelowThreshold}
		if len(ranked) == 0 {
			skip.Reason = SkipNoCandidates
		}
		skip.Closest, skip.Distance = match.Closest(entry.Title, cands)
		log.Warn().
			Int("results", len(list)).
			Str("closest", skip.Closest).
			Int("distance", skip.Distance).
			Msg("No match with sufficient similarity found")
		return Processed{}, skip
	}

	log.Info().
		Str("id", best.ID).
		Str("match", best.Best.Text).
		Float64("similarity", best.Similarity).
		Msgf("Best match found: %s", best.Title)

	p := Processed{
		Title:      entry.Title,
		ID:         best.ID,
		Status:     entry.Category,
		Similarity: best.Similarity,
	}
	status := ConvertStatus(string(entry.Category))
	if im.dryRun {
		log.Info().Str("status", string(status)).Msg("Dry run, status not updated")
		return p, nil
	}

	// The entry counts as processed even when the update fails.
	if err := im.catalog.UpdateMangaStatus(ctx, best.ID, status); err != nil {
		log.Error().Err(err).Str("id", best.ID).Msg("Failed to update status")
		return p, nil
	}
	p.Updated = true
	log.Info().Str("id", best.ID).Str("status", string(status)).Msg("Status updated")
	return p, nil
}

func progressLine(current, total int, title string) string {
	percent := float64(current) / float64(total) * 100
	return fmt.Sprintf("[%d/%d] %.1f%% - %s", current, total, percent, title)
}
