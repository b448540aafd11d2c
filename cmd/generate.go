package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hallvardm/blogrss/internal/config"
	"github.com/hallvardm/blogrss/internal/feed"
	"github.com/hallvardm/blogrss/internal/scrape"
	"github.com/hallvardm/blogrss/internal/ui"
	"github.com/hallvardm/blogrss/internal/util"
)

var (
	flagSearchURL   string
	flagBaseURL     string
	flagOutput      string
	flagMaxArticles int
	flagMaxRetries  int
	flagTimeout     int
	flagUserAgent   string
	flagNoProgress  bool
)

func init() {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Scrape the blog search page and write the RSS feed file. Uses the active config, overwritten by CLI flags",
		RunE:  runGenerate,
	}

	generateCmd.Flags().StringVar(&flagSearchURL, "url", "", "search results page URL to scrape")
	generateCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "base URL for resolving relative article links")
	generateCmd.Flags().StringVar(&flagOutput, "output", "", "output path for the feed file")
	generateCmd.Flags().IntVar(&flagMaxArticles, "max-articles", 20, "cap on processed containers/links per run")
	generateCmd.Flags().IntVar(&flagMaxRetries, "max-retries", 3, "retry budget per page fetch")
	generateCmd.Flags().IntVar(&flagTimeout, "timeout", 10, "per-request timeout in seconds")
	generateCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	generateCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "disable progress bars")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	// Optional .env next to the binary, same surface the hosted runs use.
	_ = godotenv.Load()

	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		SearchURL:    flagSearchURL,
		BaseURL:      flagBaseURL,
		Output:       flagOutput,
		UserAgent:    flagUserAgent,
	})
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("max-articles") {
		cfg.MaxArticles = flagMaxArticles
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetries = flagMaxRetries
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = flagTimeout
	}

	// RSS_OUTPUT_FILE wins over the config file but not over --output.
	if out := os.Getenv("RSS_OUTPUT_FILE"); out != "" && !cmd.Flags().Changed("output") {
		cfg.Output = out
	}

	logSvc := ui.NewLogger(cfg.Debug)
	if usedPath != "" {
		fmt.Printf("Config file: %s\n", usedPath)
	}

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		UserAgent:   util.PickUserAgent(cfg.UserAgent),
		DebugLogger: logSvc,
	})
	if err != nil {
		return err
	}

	stats := &ui.Stats{}

	var pm *ui.ProgressManager
	if !flagNoProgress {
		pm = ui.NewProgressManager()
		defer pm.Close()
	}

	meta := feed.ChannelMeta{
		Title:       cfg.FeedTitle,
		Link:        cfg.FeedLink,
		Description: cfg.FeedDescription,
		Language:    cfg.FeedLanguage,
		SelfURL:     cfg.FeedSelfURL,
	}

	scraper := scrape.NewPageScraper(scrape.ScraperOptions{
		Fetcher:     scrape.NewFetcher(client, cfg.MaxRetries, logSvc),
		BaseURL:     cfg.BaseURL,
		SearchURL:   cfg.SearchURL,
		Meta:        meta,
		MaxArticles: cfg.MaxArticles,
		Logger:      logSvc,
		Stats:       stats,
		Progress:    pm,
	})

	start := time.Now()

	logSvc.Infof("scraping %s\n", cfg.SearchURL)
	articles := scraper.Scrape(context.Background())
	stats.ArticlesFound.Store(int64(len(articles)))

	n, err := feed.NewSerializer(meta).WriteFile(cfg.Output, articles)
	if err != nil {
		return err
	}
	stats.BytesWritten.Store(int64(n))

	fmt.Printf("Feed generated: %s (%s, %d articles, %d pages fetched, %s)\n",
		cfg.Output,
		util.Human(stats.BytesWritten.Load()),
		len(articles),
		stats.PagesFetched.Load(),
		time.Since(start).Round(time.Millisecond),
	)

	return nil
}
