package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"archivedoc/internal/archive"
	"archivedoc/internal/config"
	"archivedoc/internal/crawler"
	"archivedoc/internal/database"
	"archivedoc/internal/document"
	"archivedoc/internal/extract"
	"archivedoc/internal/fetch"
	"archivedoc/internal/log"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [start-url]",
		Short: "Crawl archived snapshots into a Markdown document",
		Long: `Crawl starts from an archived snapshot URL, follows in-scope links
depth-first, and appends each newly discovered page's content to the
output document.

Every page is deduplicated three ways: by exact snapshot URL, by the
original URL embedded in the snapshot (so two captures of the same page
count once), and by body content (so mirrored pages are not repeated).

The output file is rewritten after every accepted page. Interrupting the
crawl keeps everything collected so far.

Examples:
  # Crawl a site's snapshots into content.md
  archivedoc crawl https://web.archive.org/web/20050101000000/http://example.org/ \
    -o content.md -d example.org

  # Slow down for an aggressive rate limiter
  archivedoc crawl <start-url> -o content.md -d example.org --crawl-delay 5s

  # Use a seed file instead of flags
  archivedoc crawl -c myproject.yaml

Seed file (.archivedoc) example:
  start_url: https://web.archive.org/web/20050101000000/http://example.org/
  output: content.md
  domain_filter: example.org
  crawl_delay: 2s`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl target flags
	cmd.Flags().StringP("output", "o", "",
		"Output Markdown file path (required unless set in the seed file)")
	cmd.Flags().StringP("domain-filter", "d", "",
		"Original-site substring that in-scope links must contain (e.g. example.org)")
	cmd.Flags().String("archive-prefix", config.DefaultArchivePrefix,
		"Archive service URL prefix for in-scope links")

	// Politeness and retry flags
	cmd.Flags().Int("max-attempts", config.DefaultMaxAttempts,
		"Total fetch attempts per URL, including the first")
	cmd.Flags().Duration("base-delay", config.DefaultBaseDelay,
		"Exponential backoff base between fetch attempts")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request HTTP timeout")
	cmd.Flags().Duration("crawl-delay", config.DefaultCrawlDelay,
		"Politeness delay after each successful fetch")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Seed file
	cmd.Flags().StringP("config", "c", "",
		"Seed file path (default: .archivedoc in current or home directory)")

	// Journal flags
	cmd.Flags().Bool("no-journal", false,
		"Disable the SQLite crawl journal")
	cmd.Flags().String("journal-dir", "",
		"Directory for the crawl journal (default: XDG data directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig layers configuration sources: defaults, then the seed
// file, then environment variables, then explicitly set flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.SeedFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Seed file: explicit path must exist, the default search may miss.
	explicitSeedPath := cfg.SeedFilePath != ""
	seedPath := config.FindSeedFile(cfg.SeedFilePath)
	if seedPath != "" {
		seed, err := config.LoadSeedFile(seedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed file %s: %w", seedPath, err)
		}
		if err := seed.Apply(cfg); err != nil {
			return nil, err
		}
	} else if explicitSeedPath {
		return nil, fmt.Errorf("seed file not found: %s", cfg.SeedFilePath)
	}

	// Environment variables sit between the seed file and flags.
	if v := os.Getenv("ARCHIVEDOC_START_URL"); v != "" {
		cfg.StartURL = v
	}
	if v := os.Getenv("ARCHIVEDOC_OUTPUT"); v != "" {
		cfg.OutputFile = v
	}
	if v := os.Getenv("ARCHIVEDOC_DOMAIN_FILTER"); v != "" {
		cfg.DomainFilter = v
	}

	// Explicitly set flags override everything. Changed checks keep flag
	// defaults from clobbering seed file and environment values.
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.StartURL = args[0]
	}

	return cfg, nil
}

// applyFlags overlays explicitly set flags onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("output") {
		v, err := flags.GetString("output")
		if err != nil {
			return err
		}
		cfg.OutputFile = v
	}
	if flags.Changed("domain-filter") {
		v, err := flags.GetString("domain-filter")
		if err != nil {
			return err
		}
		cfg.DomainFilter = v
	}
	if flags.Changed("archive-prefix") {
		v, err := flags.GetString("archive-prefix")
		if err != nil {
			return err
		}
		cfg.ArchivePrefix = v
	}
	if flags.Changed("max-attempts") {
		v, err := flags.GetInt("max-attempts")
		if err != nil {
			return err
		}
		cfg.MaxAttempts = v
	}
	if flags.Changed("base-delay") {
		v, err := flags.GetDuration("base-delay")
		if err != nil {
			return err
		}
		cfg.BaseDelay = v
	}
	if flags.Changed("timeout") {
		v, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = v
	}
	if flags.Changed("crawl-delay") {
		v, err := flags.GetDuration("crawl-delay")
		if err != nil {
			return err
		}
		cfg.CrawlDelay = v
	}
	if flags.Changed("user-agent") {
		v, err := flags.GetString("user-agent")
		if err != nil {
			return err
		}
		cfg.UserAgent = v
	}
	if flags.Changed("no-journal") {
		v, err := flags.GetBool("no-journal")
		if err != nil {
			return err
		}
		cfg.SaveJournal = !v
	}
	if flags.Changed("journal-dir") {
		v, err := flags.GetString("journal-dir")
		if err != nil {
			return err
		}
		cfg.JournalDir = v
	}

	return nil
}

// runCrawl wires the collaborators and executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	fetcher := fetch.New(&http.Client{Timeout: cfg.Timeout},
		fetch.WithMaxAttempts(cfg.MaxAttempts),
		fetch.WithBaseDelay(cfg.BaseDelay),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)
	extractor := extract.New(cfg.BannerSelectors...)
	builder := document.NewBuilder(cfg.OutputFile)

	opts := []crawler.Option{
		crawler.WithScope(archive.NewScope(cfg.ArchivePrefix, cfg.DomainFilter)),
		crawler.WithArchivePrefix(cfg.ArchivePrefix),
		crawler.WithCrawlDelay(cfg.CrawlDelay),
		crawler.WithLogger(logger),
	}

	var journal *database.Journal
	if cfg.SaveJournal {
		j, err := database.Open(cfg.JournalDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open crawl journal: %w", err)
		}
		defer j.Close()
		logger.Info("journal opened", "path", j.Path())
		opts = append(opts, crawler.WithJournal(j))
		journal = j
	}

	// The spinner shares stderr with the logger, so it only runs in
	// non-verbose mode where log lines are rare.
	var spin *spinner.Spinner
	if !cfg.Verbose {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(os.Stderr))
		spin.Suffix = " crawling..."
		opts = append(opts, crawler.WithProgress(func(p crawler.Progress) {
			spin.Suffix = fmt.Sprintf(" %d processed, %d added, %d pending",
				p.Processed, p.Accepted, p.Pending)
		}))
		spin.Start()
		defer spin.Stop()
	}

	engine := crawler.New(fetcher, extractor, builder, opts...)

	logger.Info("starting crawl",
		"startURL", cfg.StartURL,
		"output", cfg.OutputFile,
		"domainFilter", cfg.DomainFilter,
	)

	start := time.Now()
	err := engine.Run(ctx, cfg.StartURL)
	if spin != nil {
		spin.Stop()
	}
	elapsed := time.Since(start).Round(time.Millisecond)

	stats := engine.Stats()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Printf("Crawl interrupted after %s: %d pages in %s\n",
				elapsed, stats.Accepted, cfg.OutputFile)
			return nil
		}
		return err
	}

	fmt.Printf("Crawl completed in %s\n", elapsed)
	fmt.Printf("  processed:          %d\n", stats.Processed)
	fmt.Printf("  added to document:  %d\n", stats.Accepted)
	fmt.Printf("  duplicate snapshot: %d\n", stats.DuplicateOriginal)
	fmt.Printf("  duplicate content:  %d\n", stats.DuplicateContent)
	fmt.Printf("  unreachable:        %d\n", stats.FetchFailed)
	if stats.NoContent > 0 {
		fmt.Printf("  empty pages:        %d\n", stats.NoContent)
	}
	if journal != nil {
		if total, err := journal.PageCount(ctx); err == nil {
			fmt.Printf("  journal:            %d URLs in %s\n", total, journal.Path())
		}
	}
	fmt.Printf("Document written to %s\n", cfg.OutputFile)
	return nil
}
