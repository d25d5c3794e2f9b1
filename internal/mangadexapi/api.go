package mangadexapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

func (c *Client) GetMangaList(ctx context.Context, qp QueryParams) ([]Manga, error) {
	params := qp.ToValues()
	var list []Manga
	if err := c.doJSON(ctx, http.MethodGet, "/manga", params, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateMangaStatus sets the reading status of a manga for the logged in
// user. ReadingStatusNone is sent as null and removes the status.
func (c *Client) UpdateMangaStatus(ctx context.Context, id string, status ReadingStatus) error {
	mangaID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid manga id %q: %w", id, err)
	}
	body := struct {
		Status *ReadingStatus `json:"status"`
	}{}
	if status != ReadingStatusNone {
		body.Status = &status
	}
	if err := c.doJSON(ctx, http.MethodPost, "/manga/"+mangaID.String()+"/status", nil, body, nil); err != nil {
		return err
	}
	return nil
}
