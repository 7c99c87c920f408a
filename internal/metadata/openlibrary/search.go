package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bookquest/bookquest-server/internal/metadata"
)

const maxResults = 5

// searchResponse is the raw Open Library search.json response.
type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []doc `json:"docs"`
}

type doc struct {
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	Publisher        []string `json:"publisher"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	CoverID          int64    `json:"cover_i"`
	FirstSentence    []string `json:"first_sentence"`
}

// Lookup searches Open Library for a title and returns the best fuzzy
// match. Returns metadata.ErrNotFound when nothing acceptable comes back,
// including on transport failures.
func (c *Client) Lookup(ctx context.Context, title, author string) (*metadata.BookMetadata, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("title", title)
	if author != "" {
		params.Set("author", author)
	}
	params.Set("limit", strconv.Itoa(maxResults))
	searchURL := c.baseURL + "/search.json?" + params.Encode()

	c.logger.Debug("searching Open Library", "title", title, "author", author)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Open Library unreachable", "error", err)
		return nil, metadata.ErrNotFound
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Open Library search failed", "status", resp.StatusCode)
		return nil, metadata.ErrNotFound
	}

	var searchResp searchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	candidates := make([]metadata.BookMetadata, 0, len(searchResp.Docs))
	for i := range searchResp.Docs {
		candidates = append(candidates, c.toMetadata(&searchResp.Docs[i]))
	}

	best, ok := metadata.BestMatch(title, candidates)
	if !ok {
		return nil, metadata.ErrNotFound
	}
	return best, nil
}

func (c *Client) toMetadata(d *doc) metadata.BookMetadata {
	m := metadata.BookMetadata{
		Title:         d.Title,
		Authors:       d.AuthorName,
		PublishedYear: d.FirstPublishYear,
		ISBNs:         d.ISBN,
		Source:        "openlibrary",
	}
	if len(d.Publisher) > 0 {
		m.Publisher = d.Publisher[0]
	}
	if len(d.FirstSentence) > 0 {
		m.Description = d.FirstSentence[0]
	}
	if d.CoverID > 0 {
		m.CoverURL = fmt.Sprintf("%s/b/id/%d-L.jpg", c.coverURL, d.CoverID)
	}
	return m
}
