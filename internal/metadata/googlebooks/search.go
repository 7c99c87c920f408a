package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bookquest/bookquest-server/internal/metadata"
)

const maxResults = 5

// volumesResponse is the raw Google Books API response.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string       `json:"title"`
	Authors             []string     `json:"authors"`
	Publisher           string       `json:"publisher"`
	PublishedDate       string       `json:"publishedDate"`
	Description         string       `json:"description"`
	IndustryIdentifiers []identifier `json:"industryIdentifiers"`
	ImageLinks          imageLinks   `json:"imageLinks"`
}

type identifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type imageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// Lookup searches Google Books for a title and returns the best fuzzy
// match. Returns metadata.ErrNotFound when nothing acceptable comes back,
// including on transport failures.
func (c *Client) Lookup(ctx context.Context, title, author string) (*metadata.BookMetadata, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	q := fmt.Sprintf("intitle:%q", title)
	if author != "" {
		q += fmt.Sprintf(" inauthor:%q", author)
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", strconv.Itoa(maxResults))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	searchURL := c.baseURL + "/volumes?" + params.Encode()

	c.logger.Debug("searching Google Books", "title", title, "author", author)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Google Books unreachable", "error", err)
		return nil, metadata.ErrNotFound
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Google Books search failed", "status", resp.StatusCode)
		return nil, metadata.ErrNotFound
	}

	var volumesResp volumesResponse
	if err := json.UnmarshalRead(resp.Body, &volumesResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	candidates := make([]metadata.BookMetadata, 0, len(volumesResp.Items))
	for i := range volumesResp.Items {
		candidates = append(candidates, toMetadata(&volumesResp.Items[i].VolumeInfo))
	}

	best, ok := metadata.BestMatch(title, candidates)
	if !ok {
		return nil, metadata.ErrNotFound
	}
	return best, nil
}

func toMetadata(info *volumeInfo) metadata.BookMetadata {
	m := metadata.BookMetadata{
		Title:       info.Title,
		Authors:     info.Authors,
		Publisher:   info.Publisher,
		Description: info.Description,
		CoverURL:    info.ImageLinks.Thumbnail,
		Source:      "googlebooks",
	}
	if m.CoverURL == "" {
		m.CoverURL = info.ImageLinks.SmallThumbnail
	}
	// Published dates come as "2006", "2006-01", or "2006-01-02".
	if len(info.PublishedDate) >= 4 {
		if year, err := strconv.Atoi(info.PublishedDate[:4]); err == nil {
			m.PublishedYear = year
		}
	}
	for _, ident := range info.IndustryIdentifiers {
		if strings.HasPrefix(ident.Type, "ISBN") {
			m.ISBNs = append(m.ISBNs, ident.Identifier)
		}
	}
	return m
}
