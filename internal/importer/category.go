package importer

import "github.com/Another0Noob/mangadex-mal-import/internal/malparser"

// Category is the reading state an entry had in the export.
type Category string

const (
	Reading    Category = "Reading"
	Completed  Category = "Completed"
	OnHold     Category = "OnHold"
	Dropped    Category = "Dropped"
	PlanToRead Category = "PlanToRead"
)

// Categories is the order in which batches are processed.
var Categories = []Category{Reading, Completed, OnHold, Dropped, PlanToRead}

// Entry is one title of the export.
type Entry struct {
	Title    string
	Chapters int
	Category Category
}

type Batch struct {
	Category Category
	Entries  []Entry
}

// CategoryFromMAL maps a MAL my_status value. Unknown values, including the
// numeric "6" some exports use, count as plan to read.
func CategoryFromMAL(status string) Category {
	switch status {
	case "Reading":
		return Reading
	case "Completed":
		return Completed
	case "On-Hold":
		return OnHold
	case "Dropped":
		return Dropped
	default:
		return PlanToRead
	}
}

// Categorize splits the export into one batch per category, in Categories
// order, keeping file order inside each batch. Empty batches are kept.
func Categorize(list []malparser.Manga) []Batch {
	byCategory := make(map[Category][]Entry, len(Categories))
	for _, m := range list {
		c := CategoryFromMAL(m.MyStatus)
		byCategory[c] = append(byCategory[c], Entry{
			Title:    m.Title,
			Chapters: m.MyReadChapters,
			Category: c,
		})
	}

	batches := make([]Batch, 0, len(Categories))
	for _, c := range Categories {
		batches = append(batches, Batch{Category: c, Entries: byCategory[c]})
	}
	return batches
}
