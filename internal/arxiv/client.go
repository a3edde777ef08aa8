// Package arxiv searches the arXiv Atom API for papers by free-text
// query. Calls are serialized behind a minimum-interval rate limiter and
// results are cached on disk, so repeated extraction passes are cheap and
// polite.
package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const defaultEndpoint = "http://export.arxiv.org/api/query"

var idPattern = regexp.MustCompile(`(\d{4}\.\d{4,5})(v\d+)?$`)

// Result is one paper returned by a search.
type Result struct {
	// ID is the arXiv identifier with any version suffix stripped.
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Client queries the arXiv API.
type Client struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	parser   *gofeed.Parser
	cache    *Cache
	log      logrus.FieldLogger
}

// NewClient creates an arXiv client enforcing minInterval between calls.
// cache may be nil to disable caching.
func NewClient(minInterval time.Duration, cache *Cache, logger logrus.FieldLogger) *Client {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	return &Client{
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(minInterval), 1),
		parser:   gofeed.NewParser(),
		cache:    cache,
		log:      logger.WithField("component", "arxiv"),
	}
}

// Search returns up to max papers matching the query, most relevant
// first.
func (c *Client) Search(ctx context.Context, query string, max int) ([]Result, error) {
	log := c.log.WithField("query", query)

	if c.cache != nil {
		if results, hit := c.cache.Get(query); hit {
			log.Debug("Cache hit")
			return clamp(results, max), nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("search_query", "all:"+query)
	q.Set("max_results", fmt.Sprint(max))
	q.Set("sortBy", "relevance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned status %d", resp.StatusCode)
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse arxiv feed: %w", err)
	}

	results := make([]Result, 0, len(feed.Items))
	for _, entry := range feed.Items {
		id := entryID(entry)
		if id == "" {
			continue
		}
		results = append(results, Result{
			ID:    id,
			Title: strings.Join(strings.Fields(entry.Title), " "),
		})
	}

	if c.cache != nil {
		if err := c.cache.Put(query, results); err != nil {
			log.WithError(err).Warn("Failed to cache search results")
		}
	}
	log.WithField("results", len(results)).Debug("Search complete")
	return clamp(results, max), nil
}

// entryID pulls the bare arXiv id out of an Atom entry. Entry ids look
// like http://arxiv.org/abs/2401.12345v2.
func entryID(entry *gofeed.Item) string {
	link := entry.GUID
	if link == "" {
		link = entry.Link
	}
	m := idPattern.FindStringSubmatch(link)
	if m == nil {
		return ""
	}
	return m[1]
}

func clamp(results []Result, max int) []Result {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}
