package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err, "a missing config file is fine, defaults apply")

	assert.Empty(t, cfg.UserID)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "https://www.xiaohongshu.com", cfg.BaseURL)
	assert.Equal(t, "AI/LLM", cfg.PrimaryTag)
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
	assert.Equal(t, "zh-CN", cfg.Browser.Locale)
	assert.Equal(t, 50, cfg.Fetch.MaxScrollsLikes)
	assert.Equal(t, 30, cfg.Fetch.MaxScrollsBookmarks)
	assert.Equal(t, 2*time.Second, cfg.Fetch.ScrollWait())
	assert.Equal(t, 3, cfg.Fetch.NoChangeThreshold)
	assert.Equal(t, time.Second, cfg.Papers.RateLimit())
	assert.Equal(t, 3, cfg.Papers.MaxResults)
	assert.Equal(t, 4*time.Second, cfg.Papers.PageLoadWait())
	assert.Equal(t, DefaultTagRules(), cfg.TagRules)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
user_id: "5abc123"
data_dir: /tmp/redmark-data
primary_tag: "机器学习"
fetch:
  max_scrolls_likes: 5
  scroll_wait_ms: 500
paper_extraction:
  arxiv_rate_limit_sec: 2.5
tag_rules:
  - name: "测试"
    keywords: ["foo", "bar"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "5abc123", cfg.UserID)
	assert.Equal(t, "/tmp/redmark-data", cfg.DataDir)
	assert.Equal(t, "机器学习", cfg.PrimaryTag)
	assert.Equal(t, 5, cfg.Fetch.MaxScrollsLikes)
	assert.Equal(t, 500*time.Millisecond, cfg.Fetch.ScrollWait())
	assert.Equal(t, 30, cfg.Fetch.MaxScrollsBookmarks, "unset keys keep their defaults")
	assert.Equal(t, 2500*time.Millisecond, cfg.Papers.RateLimit())

	require.Len(t, cfg.TagRules, 1, "configured rules replace the built-in set")
	assert.Equal(t, "测试", cfg.TagRules[0].Name)
	assert.Equal(t, []string{"foo", "bar"}, cfg.TagRules[0].Keywords)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_id: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestPathHelpers(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/redmark"}
	assert.Equal(t, "/var/lib/redmark/likes.json", cfg.LikesFile())
	assert.Equal(t, "/var/lib/redmark/bookmarks.json", cfg.BookmarksFile())
	assert.Equal(t, "/var/lib/redmark/likes.md", cfg.LikesMarkdown())
	assert.Equal(t, "/var/lib/redmark/review_state.json", cfg.ReviewStateFile())
	assert.Equal(t, "/var/lib/redmark/arxiv_cache", cfg.ArxivCacheDir())
}

func TestDefaultTagRules(t *testing.T) {
	rules := DefaultTagRules()
	require.NotEmpty(t, rules)
	assert.Equal(t, "AI/LLM", rules[0].Name, "the primary category comes first")
	for _, rule := range rules {
		assert.NotEmpty(t, rule.Keywords, "rule %q has no keywords", rule.Name)
	}
}
