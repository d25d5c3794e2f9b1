package importer

import "github.com/Another0Noob/mangadex-mal-import/internal/mangadexapi"

// ConvertStatus maps a category, by name or by its MAL spelling, to a
// MangaDex reading status. Anything unrecognised becomes plan_to_read.
func ConvertStatus(category string) mangadexapi.ReadingStatus {
	switch category {
	case "Reading":
		return mangadexapi.ReadingStatusReading
	case "Completed":
		return mangadexapi.ReadingStatusCompleted
	case "OnHold", "On-Hold":
		return mangadexapi.ReadingStatusOnHold
	case "Dropped":
		return mangadexapi.ReadingStatusDropped
	default:
		return mangadexapi.ReadingStatusPlanToRead
	}
}
