package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/LesleyGao/internship-tracker/internal/config"
)

// Fetcher performs the single GET against the feed endpoint. One attempt per
// run; any transport failure or non-2xx status is fatal for the run.
type Fetcher struct {
	url string
	ua  string
	hc  *http.Client
	lim *rate.Limiter
}

func NewFetcher(cfg config.Config) *Fetcher {
	return &Fetcher{
		url: cfg.Source.URL,
		ua:  cfg.Fetch.UserAgent,
		hc:  &http.Client{Timeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second},
		lim: rate.NewLimiter(rate.Limit(cfg.Fetch.RequestsPerSecond), cfg.Fetch.Burst),
	}
}

func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := f.lim.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)

	res, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("feed status %d", res.StatusCode)
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("feed read: %w", err)
	}
	return b, nil
}
