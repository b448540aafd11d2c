package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SearchURL      string `yaml:"search_url"`
	BaseURL        string `yaml:"base_url"`
	Output         string `yaml:"output"`
	MaxArticles    int    `yaml:"max_articles"`
	MaxRetries     int    `yaml:"max_retries"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
	Debug          bool   `yaml:"debug"`

	FeedTitle       string `yaml:"feed_title"`
	FeedLink        string `yaml:"feed_link"`
	FeedDescription string `yaml:"feed_description"`
	FeedLanguage    string `yaml:"feed_language"`
	FeedSelfURL     string `yaml:"feed_self_url"`
}

type Options struct {
	IgnoreConfig bool
	Debug        bool
	SearchURL    string
	BaseURL      string
	Output       string
	MaxArticles  int
	MaxRetries   int
	Timeout      int
	UserAgent    string
}

func DefaultConfig() *Config {
	return &Config{
		SearchURL:       "https://developers.googleblog.com/en/search/",
		BaseURL:         "https://developers.googleblog.com",
		Output:          "feed.xml",
		MaxArticles:     20,
		MaxRetries:      3,
		TimeoutSeconds:  10,
		UserAgent:       "",
		Debug:           false,
		FeedTitle:       "Google Developers Search Blog",
		FeedLink:        "https://developers.googleblog.com/en/search/",
		FeedDescription: "Latest updates from Google Developers Search team",
		FeedLanguage:    "en-us",
		FeedSelfURL:     "https://hallvardm.github.io/blogrss/feed.xml",
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadMerged resolves the active profile (if any), overlays CLI options
// on top, and fills missing values with defaults.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if err == ErrNoConfig || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `blogrss config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.SearchURL != "" {
		c.SearchURL = o.SearchURL
	}
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.MaxArticles != 0 {
		c.MaxArticles = o.MaxArticles
	}
	if o.MaxRetries != 0 {
		c.MaxRetries = o.MaxRetries
	}
	if o.Timeout != 0 {
		c.TimeoutSeconds = o.Timeout
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Debug {
		c.Debug = true
	}
}

func normalizeDefaults(c *Config) {
	def := DefaultConfig()

	if c.SearchURL == "" {
		c.SearchURL = def.SearchURL
	}
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.MaxArticles == 0 {
		c.MaxArticles = def.MaxArticles
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = def.TimeoutSeconds
	}
	if c.FeedTitle == "" {
		c.FeedTitle = def.FeedTitle
	}
	if c.FeedLink == "" {
		c.FeedLink = c.SearchURL
	}
	if c.FeedDescription == "" {
		c.FeedDescription = def.FeedDescription
	}
	if c.FeedLanguage == "" {
		c.FeedLanguage = def.FeedLanguage
	}
	if c.FeedSelfURL == "" {
		c.FeedSelfURL = def.FeedSelfURL
	}
}

func (c *Config) Print() {
	fmt.Printf(" -search_url: %s\n", c.SearchURL)
	fmt.Printf(" -base_url: %s\n", c.BaseURL)
	fmt.Printf(" -output: %s\n", c.Output)
	fmt.Printf(" -max_articles: %d\n", c.MaxArticles)
	fmt.Printf(" -max_retries: %d\n", c.MaxRetries)
	fmt.Printf(" -timeout_seconds: %d\n", c.TimeoutSeconds)
	if c.UserAgent != "" {
		fmt.Printf(" -user_agent: %s\n", c.UserAgent)
	}
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
	fmt.Printf(" -feed_title: %s\n", c.FeedTitle)
	fmt.Printf(" -feed_link: %s\n", c.FeedLink)
	fmt.Printf(" -feed_description: %s\n", c.FeedDescription)
	fmt.Printf(" -feed_language: %s\n", c.FeedLanguage)
	fmt.Printf(" -feed_self_url: %s\n", c.FeedSelfURL)
}
