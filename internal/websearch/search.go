package websearch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Result is one hit returned by the search API.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"link"`
	Snippet string `json:"snippet"`
}

// Source is a search result after its page content has been fetched and
// scored against the document.
type Source struct {
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	Content    string  `json:"-"`
	Similarity float64 `json:"similarity"`
}

type searchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type searchResponse struct {
	Organic []Result `json:"organic"`
}

// Client queries a Serper-compatible search endpoint.
type Client struct {
	http       *resty.Client
	endpoint   string
	maxResults int
}

func NewClient(endpoint, apiKey string, maxResults int, timeout time.Duration) *Client {
	http := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-API-KEY", apiKey)
	return &Client{http: http, endpoint: endpoint, maxResults: maxResults}
}

// Search runs one query and returns up to maxResults organic hits. A failed
// query is an error for the caller to degrade on; an empty hit list is not.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	var parsed searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(searchRequest{Query: query, Num: c.maxResults}).
		SetResult(&parsed).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search request: status %d", resp.StatusCode())
	}
	results := parsed.Organic
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	logutil.GetLogger(ctx).Debug("search query completed",
		zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}
