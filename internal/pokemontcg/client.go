package pokemontcg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/masterdex/card-search-go/internal/aio"
	"github.com/masterdex/card-search-go/internal/cards"
	"github.com/masterdex/card-search-go/internal/config"
	"github.com/masterdex/card-search-go/internal/web"
	"github.com/rs/zerolog/log"
)

func NewClient(cfg config.Upstream, wclient web.Client) *Client {
	return &Client{
		cfg:     cfg,
		wclient: wclient,
	}
}

// Client talks to the card search API. Every call is an independent
// request, concurrent use is safe.
type Client struct {
	cfg     config.Upstream
	wclient web.Client
}

// PageSize returns the page size every search request is sent with.
func (c *Client) PageSize() int {
	return c.cfg.PageSizeOrDefault()
}

// Search builds the query from the given filter and fetches the first
// result page. An empty filter resolves to a zero result without any
// upstream call.
func (c *Client) Search(ctx context.Context, f cards.SearchFilter) (cards.SearchResult, error) {
	query := BuildQuery(f)
	log.Debug().Str("query", query).Msg("built search query")

	if query == "" {
		return cards.SearchResult{
			Data:     []cards.Card{},
			Page:     1,
			PageSize: c.cfg.PageSizeOrDefault(),
		}, nil
	}

	return c.SearchQuery(ctx, query, 0)
}

// SearchQuery fetches one result page for an already formatted query. A
// page of 0 leaves the page selection to the upstream API.
func (c *Client) SearchQuery(ctx context.Context, query string, page int) (cards.SearchResult, error) {
	target, err := c.cfg.EnsureBaseURL("cards")
	if err != nil {
		return cards.SearchResult{}, fmt.Errorf("failed to create search url due to %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("pageSize", strconv.Itoa(c.cfg.PageSizeOrDefault()))
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	target += "?" + params.Encode()

	log.Debug().Str("url", target).Msg("searching cards")

	resp, err := c.wclient.Get(ctx, target, c.getOpts())
	if err != nil {
		return cards.SearchResult{}, fmt.Errorf("failed to search cards with query %s due to %w", query, readableErr(err))
	}
	defer aio.Close(resp.Body)

	var result cards.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return cards.SearchResult{}, fmt.Errorf("failed to decode search result due to %w", err)
	}

	log.Debug().Int("count", result.Count).Int("totalCount", result.TotalCount).
		Int("page", result.Page).Msg("search finished")

	return result, nil
}

// GetCard fetches a single card by its ID. A missing card is reported via
// cards.ErrCardNotFound.
func (c *Client) GetCard(ctx context.Context, id string) (cards.Card, error) {
	target, err := c.cfg.EnsureBaseURL(path.Join("cards", id))
	if err != nil {
		return cards.Card{}, fmt.Errorf("failed to create card url due to %w", err)
	}

	log.Debug().Str("url", target).Msg("fetching card")

	resp, err := c.wclient.Get(ctx, target, c.getOpts())
	if err != nil {
		err = readableErr(err)
		if web.IsStatusCode(err, http.StatusNotFound) {
			err = errors.Join(err, cards.ErrCardNotFound)
		}

		return cards.Card{}, fmt.Errorf("failed to get card %s due to %w", id, err)
	}
	defer aio.Close(resp.Body)

	var body struct {
		Data cards.Card `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return cards.Card{}, fmt.Errorf("failed to decode card %s due to %w", id, err)
	}

	return body.Data, nil
}

// GetImage downloads a card image from the given url. A missing image is
// reported via cards.ErrImageNotFound.
func (c *Client) GetImage(ctx context.Context, imgURL string) (*cards.ImageResult, error) {
	opts := web.NewGetOpts().
		WithHeader(web.HeaderAccept, web.MimeTypeJpeg).
		WithExpectedCodes(http.StatusOK)
	if c.cfg.APIKey != "" {
		opts = opts.WithHeader(web.HeaderAPIKey, c.cfg.APIKey)
	}

	resp, err := c.wclient.Get(ctx, imgURL, opts)
	if err != nil {
		if web.IsStatusCode(err, http.StatusNotFound) {
			err = errors.Join(err, cards.ErrImageNotFound)
		}

		return nil, fmt.Errorf("failed to get image from %s due to %w", imgURL, err)
	}

	return &cards.ImageResult{
		MimeType: web.NewMimeType(resp.ContentType),
		File:     resp.Body,
	}, nil
}

func (c *Client) getOpts() web.GetOptions {
	opts := web.NewGetOpts().
		WithHeader(web.HeaderAccept, web.MimeTypeJSON).
		WithExpectedCodes(http.StatusOK)
	if c.cfg.APIKey != "" {
		opts = opts.WithHeader(web.HeaderAPIKey, c.cfg.APIKey)
	}

	return opts
}

// readableErr replaces the raw error body of an API error with the message
// the server put into it. The upstream reports errors either as
// {"error": "..."} or {"error": {"message": "..."}}.
func readableErr(err error) error {
	var apiErr *web.ExternalAPIError
	if !errors.As(err, &apiErr) {
		return err
	}

	return web.NewErr(apiErr.URL, apiErr.StatusCode, extractMessage(apiErr.Message))
}

func extractMessage(body string) string {
	var eb struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &eb); err != nil {
		return body
	}

	switch v := eb.Error.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if m, ok := v["message"].(string); ok && m != "" {
			return m
		}
	}

	if eb.Message != "" {
		return eb.Message
	}

	return body
}
