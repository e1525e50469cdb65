// Package openlibrary queries the Open Library search index to fill in
// citation fields the heuristic parser could not extract.
//
// Enrichment is a fallible capability: every failure mode (transport
// error, timeout, non-2xx status, malformed body, empty result set)
// degrades to "no result" and is never surfaced as an error. Callers fall
// back to locally parsed fields.
package openlibrary

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/refmill/refmill/citation"
)

// DefaultBaseURL is the Open Library full-text search endpoint.
const DefaultBaseURL = "https://openlibrary.org/search.json"

// Config configures the enrichment client.
type Config struct {
	// BaseURL of the search endpoint (default: Open Library).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Timeout for one lookup (default: 5s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// HTTPClient overrides the default client. Its own timeout wins.
	HTTPClient *http.Client `json:"-" yaml:"-"`

	// Logger for degraded-lookup debug messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client looks up bibliographic records by author and title.
type Client struct {
	cfg Config
}

// New creates a Client with the given configuration.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{cfg: cfg}
}

// searchDoc mirrors the subset of an Open Library search result we consume.
// Absent fields are not an error.
type searchDoc struct {
	AuthorName       []string `json:"author_name"`
	Title            string   `json:"title"`
	Publisher        []string `json:"publisher"`
	PublishPlace     []string `json:"publish_place"`
	FirstPublishYear int      `json:"first_publish_year"`
}

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

// Lookup queries the index with the whitespace-joined author and title as a
// free-text query, requesting a single candidate. It returns ok=false when
// both inputs are empty or when anything at all goes wrong; a returned
// record has ok=true and carries whichever fields the candidate listed.
//
// If the candidate names a publisher but no place, the publisher-to-place
// table supplies one.
func (c *Client) Lookup(ctx context.Context, author, title string) (*citation.Fields, bool) {
	if author == "" && title == "" {
		return nil, false
	}

	q := strings.TrimSpace(author + " " + title)

	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		c.cfg.Logger.Debug("enrichment skipped: bad base url", "error", err)
		return nil, false
	}
	qs := u.Query()
	qs.Set("q", q)
	qs.Set("limit", "1")
	u.RawQuery = qs.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, false
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		c.cfg.Logger.Debug("enrichment unavailable", "query", q, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.cfg.Logger.Debug("enrichment unavailable", "query", q, "status", resp.StatusCode)
		return nil, false
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		c.cfg.Logger.Debug("enrichment unavailable: decode", "query", q, "error", err)
		return nil, false
	}
	if len(sr.Docs) == 0 {
		return nil, false
	}

	doc := sr.Docs[0]
	f := &citation.Fields{
		Author: author,
		Title:  title,
	}
	if len(doc.AuthorName) > 0 {
		f.Author = doc.AuthorName[0]
	}
	if doc.Title != "" {
		f.Title = doc.Title
	}
	if len(doc.Publisher) > 0 {
		f.Publisher = doc.Publisher[0]
	}
	if len(doc.PublishPlace) > 0 {
		f.Place = doc.PublishPlace[0]
	}
	if doc.FirstPublishYear > 0 {
		f.Year = strconv.Itoa(doc.FirstPublishYear)
	}

	if f.Place == "" && f.Publisher != "" {
		f.Place = PlaceForPublisher(f.Publisher)
	}

	return f, true
}
