package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"redmark/internal/domain"
)

// Config holds all configuration for the application. Values are read by
// viper from a YAML config file, with defaults for everything so the tool
// works out of the box.
type Config struct {
	// UserID is the platform user id; detected from the logged-in session
	// when empty.
	UserID  string `mapstructure:"user_id"`
	DataDir string `mapstructure:"data_dir"`
	// BrowserProfileDir is the persistent Chromium profile holding the
	// login session.
	BrowserProfileDir string `mapstructure:"browser_profile_dir"`
	BaseURL           string `mapstructure:"xhs_base_url"`
	// PrimaryTag is the category that the "ai" review mode and the paper
	// extraction pass select on.
	PrimaryTag string `mapstructure:"primary_tag"`

	Browser  Browser          `mapstructure:"browser"`
	Fetch    Fetch            `mapstructure:"fetch"`
	TagRules []domain.TagRule `mapstructure:"tag_rules"`
	Papers   Papers           `mapstructure:"paper_extraction"`
}

// Browser configures the driven Chromium instance.
type Browser struct {
	ViewportWidth  int    `mapstructure:"viewport_width"`
	ViewportHeight int    `mapstructure:"viewport_height"`
	Locale         string `mapstructure:"locale"`
	UserAgent      string `mapstructure:"user_agent"`
}

// Fetch configures the capture scroll loop.
type Fetch struct {
	MaxScrollsLikes     int `mapstructure:"max_scrolls_likes"`
	MaxScrollsBookmarks int `mapstructure:"max_scrolls_bookmarks"`
	ScrollWaitMs        int `mapstructure:"scroll_wait_ms"`
	// NoChangeThreshold is the number of consecutive scroll rounds without
	// new responses after which the capture stream is considered exhausted.
	NoChangeThreshold int `mapstructure:"no_change_threshold"`
}

// ScrollWait returns the pause between scroll rounds.
func (f Fetch) ScrollWait() time.Duration {
	return time.Duration(f.ScrollWaitMs) * time.Millisecond
}

// Papers configures the paper-extraction pass.
type Papers struct {
	// RateLimitSec is the minimum interval between arXiv API calls.
	RateLimitSec   float64 `mapstructure:"arxiv_rate_limit_sec"`
	MaxResults     int     `mapstructure:"arxiv_max_results"`
	PageLoadWaitMs int     `mapstructure:"page_load_wait_ms"`
}

// RateLimit returns the minimum interval between arXiv API calls.
func (p Papers) RateLimit() time.Duration {
	return time.Duration(p.RateLimitSec * float64(time.Second))
}

// PageLoadWait returns the settle time after a note detail page loads.
func (p Papers) PageLoadWait() time.Duration {
	return time.Duration(p.PageLoadWaitMs) * time.Millisecond
}

// Load reads configuration from the given file, or from ./config.yaml when
// path is empty. A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if len(cfg.TagRules) == 0 {
		cfg.TagRules = DefaultTagRules()
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user_id", "")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("browser_profile_dir", "./data/browser_profile")
	v.SetDefault("xhs_base_url", "https://www.xiaohongshu.com")
	v.SetDefault("primary_tag", "AI/LLM")

	v.SetDefault("browser.viewport_width", 1280)
	v.SetDefault("browser.viewport_height", 900)
	v.SetDefault("browser.locale", "zh-CN")
	v.SetDefault("browser.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) "+
			"AppleWebKit/537.36 (KHTML, like Gecko) "+
			"Chrome/131.0.0.0 Safari/537.36")

	v.SetDefault("fetch.max_scrolls_likes", 50)
	v.SetDefault("fetch.max_scrolls_bookmarks", 30)
	v.SetDefault("fetch.scroll_wait_ms", 2000)
	v.SetDefault("fetch.no_change_threshold", 3)

	v.SetDefault("paper_extraction.arxiv_rate_limit_sec", 1.0)
	v.SetDefault("paper_extraction.arxiv_max_results", 3)
	v.SetDefault("paper_extraction.page_load_wait_ms", 4000)
}

// Data file locations, all under DataDir.

func (c *Config) LikesFile() string     { return filepath.Join(c.DataDir, "likes.json") }
func (c *Config) BookmarksFile() string { return filepath.Join(c.DataDir, "bookmarks.json") }
func (c *Config) LikesMarkdown() string { return filepath.Join(c.DataDir, "likes.md") }
func (c *Config) BookmarksMarkdown() string {
	return filepath.Join(c.DataDir, "bookmarks.md")
}
func (c *Config) ReviewStateFile() string {
	return filepath.Join(c.DataDir, "review_state.json")
}
func (c *Config) ArxivCacheDir() string {
	return filepath.Join(c.DataDir, "arxiv_cache")
}
