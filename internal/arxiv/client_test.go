package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query Results</title>
  <entry>
    <id>http://arxiv.org/abs/1706.03762v5</id>
    <title>Attention Is All
 You Need</title>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2403.05530</id>
    <title>Gemini 1.5</title>
  </entry>
</feed>`

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testClient(t *testing.T, endpoint string, cache *Cache) *Client {
	t.Helper()
	c := NewClient(time.Millisecond, cache, testLogger())
	if endpoint != "" {
		c.endpoint = endpoint
	}
	return c
}

func TestSearch_ParsesFeed(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		fmt.Fprint(w, atomFeed)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	results, err := c.Search(context.Background(), "attention transformer", 3)
	require.NoError(t, err)
	assert.Equal(t, "all:attention transformer", gotQuery)
	require.Len(t, results, 2)
	assert.Equal(t, "1706.03762", results[0].ID, "version suffix is stripped")
	assert.Equal(t, "Attention Is All You Need", results[0].Title, "feed whitespace is collapsed")
	assert.Equal(t, "2403.05530", results[1].ID)
}

func TestSearch_ClampsToMax(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, atomFeed)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	results, err := c.Search(context.Background(), "attention", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	_, err := c.Search(context.Background(), "attention", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestSearch_UsesCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, atomFeed)
	}))
	defer srv.Close()

	cache := testCache(t)
	c := testClient(t, srv.URL, cache)

	first, err := c.Search(context.Background(), "attention", 3)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), "attention", 3)
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "second search is served from the cache")
	assert.Equal(t, first, second)
}

func TestEntryID(t *testing.T) {
	assert.Equal(t, "1706.03762", entryID(&gofeed.Item{GUID: "http://arxiv.org/abs/1706.03762v5"}))
	assert.Equal(t, "2403.05530", entryID(&gofeed.Item{Link: "http://arxiv.org/abs/2403.05530"}))
	assert.Empty(t, entryID(&gofeed.Item{GUID: "http://example.com/not-a-paper"}))
}

func testCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCache_PutGet(t *testing.T) {
	cache := testCache(t)

	results := []Result{{ID: "1706.03762", Title: "Attention Is All You Need"}}
	require.NoError(t, cache.Put("attention", results))

	got, hit := cache.Get("attention")
	assert.True(t, hit)
	assert.Equal(t, results, got)
}

func TestCache_Miss(t *testing.T) {
	cache := testCache(t)

	got, hit := cache.Get("never stored")
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestCache_QueriesAreIndependent(t *testing.T) {
	cache := testCache(t)

	require.NoError(t, cache.Put("a", []Result{{ID: "1111.11111"}}))
	require.NoError(t, cache.Put("b", []Result{{ID: "2222.22222"}}))

	got, hit := cache.Get("a")
	require.True(t, hit)
	assert.Equal(t, "1111.11111", got[0].ID)
}
