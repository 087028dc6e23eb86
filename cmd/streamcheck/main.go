package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rojanmagar2001/streamcheck/internal/app"
)

var (
	configPath   string
	feedPath     string
	customPath   string
	outputPath   string
	reportPath   string
	defaultGroup string
	concurrency  int
	adaptive     bool
	probeTimeout time.Duration
	fetchTimeout time.Duration
	rangeBytes   int64
	userAgent    string
	proxyURL     string
	insecureTLS  bool
	rateLimit    int
	perHostRate  int
	logLevel     string
	logFormat    string
)

// loadConfig starts from the config file (or defaults) and applies only the
// flags the user actually set.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	cfg := app.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = app.LoadConfig(configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("feed") {
		cfg.FeedPath = feedPath
	}
	if flags.Changed("custom") {
		cfg.CustomPath = customPath
	}
	if flags.Changed("output") {
		cfg.OutputPath = outputPath
	}
	if flags.Changed("report") {
		cfg.ReportPath = reportPath
	}
	if flags.Changed("group") {
		cfg.DefaultGroup = defaultGroup
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrency
	}
	if flags.Changed("adaptive") {
		cfg.AdaptiveConcurrency = adaptive
	}
	if flags.Changed("probe-timeout") {
		cfg.ProbeTimeout = probeTimeout
	}
	if flags.Changed("fetch-timeout") {
		cfg.FetchTimeout = fetchTimeout
	}
	if flags.Changed("range-bytes") {
		cfg.RangeBytes = rangeBytes
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = userAgent
	}
	if flags.Changed("proxy") {
		cfg.Proxy = proxyURL
	}
	if flags.Changed("insecure") {
		cfg.InsecureTLS = insecureTLS
	}
	if flags.Changed("rate") {
		cfg.Rate = rateLimit
	}
	if flags.Changed("per-host-rate") {
		cfg.PerHostRate = perHostRate
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	return cfg, nil
}

func runCombine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return app.Run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if configPath == "" && !cmd.Flags().Changed("feed") {
		cfg.FeedPath = app.DefaultCheckFeedPath
	}
	return app.RunCheck(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "streamcheck",
		Short:         "Check M3U playlists for live streams and combine the working ones",
		Args:          cobra.NoArgs,
		RunE:          runCombine,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Print the working streams of each playlist in the feed",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
	rootCmd.AddCommand(checkCmd)

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&configPath, "config", "", "YAML config file")
	pflags.StringVar(&feedPath, "feed", app.DefaultFeedPath, "File listing playlist URLs, one per line")
	pflags.IntVar(&concurrency, "concurrency", 10, "Streams probed at once per playlist (1-500)")
	pflags.BoolVar(&adaptive, "adaptive", false, "Lower concurrency when CPU or memory is busy")
	pflags.DurationVar(&probeTimeout, "probe-timeout", 10*time.Second, "Timeout for each probe request")
	pflags.DurationVar(&fetchTimeout, "fetch-timeout", 15*time.Second, "Timeout for downloading a playlist")
	pflags.Int64Var(&rangeBytes, "range-bytes", 1024, "Bytes requested by the ranged GET fallback")
	pflags.StringVar(&userAgent, "user-agent", app.DefaultUserAgent, "User-Agent header")
	pflags.StringVar(&proxyURL, "proxy", "", "Proxy URL (http, https, socks5)")
	pflags.BoolVar(&insecureTLS, "insecure", false, "Skip TLS certificate verification")
	pflags.IntVar(&rateLimit, "rate", 0, "Max requests per second overall (0 = unlimited)")
	pflags.IntVar(&perHostRate, "per-host-rate", 0, "Max requests per second per host (0 = unlimited)")
	pflags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pflags.StringVar(&logFormat, "log-format", "console", "Log format (console, json)")

	flags := rootCmd.Flags()
	flags.StringVar(&customPath, "custom", app.DefaultCustomPath, "Curated entries always included in the output")
	flags.StringVarP(&outputPath, "output", "o", app.DefaultOutputPath, "Combined playlist path")
	flags.StringVar(&reportPath, "report", "", "Write a per-stream probe report (.xlsx)")
	flags.StringVar(&defaultGroup, "group", app.DefaultGroup, "group-title for entries without one")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
