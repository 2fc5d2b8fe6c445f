package websearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/simcheck/simcheck/internal/extract"
)

// fetchByteLimit caps how much of a page body is kept. Pages beyond this
// size contribute nothing useful to sentence-level comparison.
const fetchByteLimit = 512 * 1024

// Fetcher downloads web pages and reduces them to plain text.
type Fetcher struct {
	http *resty.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	http := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; simcheck/1.0)")
	return &Fetcher{http: http}
}

// FetchText downloads url and strips markup. Errors are returned, not
// swallowed; the orchestrator decides whether to skip the source.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	resp, err := f.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}
	body := resp.Body()
	if len(body) > fetchByteLimit {
		body = body[:fetchByteLimit]
	}
	text := strings.TrimSpace(extract.StripHTML(string(body)))
	logutil.GetLogger(ctx).Debug("page fetched",
		zap.String("url", url), zap.Int("text_len", len(text)))
	return text, nil
}
