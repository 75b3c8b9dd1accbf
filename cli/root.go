package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"marathon-scraper/config"
	"marathon-scraper/fetcher"
	"marathon-scraper/logging"
	"marathon-scraper/notify"
	"marathon-scraper/output"
	"marathon-scraper/parser"
	"marathon-scraper/record"
	"marathon-scraper/scraper"
	"marathon-scraper/sheets"
	"marathon-scraper/telemetry"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const serviceName = "marathon-scraper"

type flags struct {
	configPath   string
	timeout      float64
	pageSize     int
	pageLimit    int
	logFile      string
	browser      bool
	encoding     string
	quoting      string
	spreadsheet  string
	credentials  string
	telegramChat int64
	otlpEndpoint string
	summary      bool
}

// NewRootCommand builds the marathon-scraper command
func NewRootCommand() *cobra.Command {
	return newRootCommand(&flags{})
}

func newRootCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marathon-scraper YEAR",
		Short: "Scrapes Chicago Marathon finisher results for a year and writes them as CSV to stdout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil || year <= 0 {
				return fmt.Errorf("invalid year %q: must be a positive integer", args[0])
			}

			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, year, f.summary, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	fl.Float64VarP(&f.timeout, "timeout", "t", 10, "Per-request timeout in seconds (0 disables it)")
	fl.IntVarP(&f.pageSize, "num-results", "n", 25, "Results per page")
	fl.IntVarP(&f.pageLimit, "page-limit", "l", 0, "Maximum pages per gender (0 = all)")
	fl.StringVar(&f.logFile, "logger", "output.log", "Log file path")
	fl.BoolVar(&f.browser, "browser", false, "Fetch pages with a headless browser")
	fl.StringVar(&f.encoding, "encoding", "utf-8", "Output character encoding")
	fl.StringVar(&f.quoting, "quoting", "wrap", "Output quoting mode: wrap or csv")
	fl.StringVar(&f.spreadsheet, "spreadsheet", "", "Google Sheets URL to copy results into")
	fl.StringVar(&f.credentials, "credentials", "", "Google service account credentials JSON file")
	fl.Int64Var(&f.telegramChat, "telegram-chat", 0, "Telegram chat ID to notify when the run ends")
	fl.StringVar(&f.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP endpoint for traces")
	fl.BoolVar(&f.summary, "summary", false, "Print a per-gender summary table to stderr")

	return cmd
}

// Execute runs the root command; SIGINT and SIGTERM cancel the run between pages
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// loadConfig layers defaults, the optional file and explicitly set flags, then validates
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("timeout") {
		cfg.Fetch.TimeoutSeconds = f.timeout
	}
	if changed("num-results") {
		cfg.Fetch.PageSize = f.pageSize
	}
	if changed("page-limit") {
		cfg.Fetch.PageLimit = f.pageLimit
	}
	if changed("logger") {
		cfg.Logging.File = f.logFile
	}
	if changed("browser") {
		cfg.Fetch.Browser = f.browser
	}
	if changed("encoding") {
		cfg.Output.Encoding = f.encoding
	}
	if changed("quoting") {
		cfg.Output.Quoting = f.quoting
	}
	if changed("spreadsheet") {
		cfg.Sheets.SpreadsheetURL = f.spreadsheet
	}
	if changed("credentials") {
		cfg.Sheets.Credentials = f.credentials
	}
	if changed("telegram-chat") {
		cfg.Notify.TelegramChatID = f.telegramChat
	}
	if changed("otlp-endpoint") {
		cfg.Telemetry.OtlpEndpoint = f.otlpEndpoint
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, year int, summary bool, stdout, stderr io.Writer) error {
	log, logFile, err := logging.New(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	shutdown, err := telemetry.Setup(ctx, serviceName, cfg.Telemetry.OtlpEndpoint)
	if err != nil {
		log.WithError(err).Error("Failed to set up telemetry")
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to shut down telemetry")
		}
	}()

	f, closeFetcher, err := newFetcher(cfg)
	if err != nil {
		log.WithError(err).Error("Failed to create fetcher")
		return err
	}
	defer closeFetcher()

	sink, err := newSink(ctx, cfg, year, stdout, log)
	if err != nil {
		log.WithError(err).Error("Failed to create output")
		return err
	}

	notifier := newNotifier(cfg, log)

	log.WithFields(logrus.Fields{
		"year":       year,
		"page_size":  cfg.Fetch.PageSize,
		"page_limit": cfg.Fetch.PageLimit,
		"browser":    cfg.Fetch.Browser,
	}).Info("Starting run")

	driver := scraper.NewDriver(
		f,
		parser.NewExtractor(cfg.Selectors),
		record.NewBuilder(cfg.Columns),
		sink,
		log,
		scraper.Options{
			Year:      year,
			PageSize:  cfg.Fetch.PageSize,
			PageLimit: cfg.Fetch.PageLimit,
			Genders:   cfg.Source.Genders,
		},
	)

	stats, runErr := driver.Run(ctx)
	if runErr != nil {
		log.WithError(runErr).Error("Run aborted")
	} else {
		log.WithFields(logrus.Fields{
			"records": stats.Records(),
			"skipped": stats.Skipped(),
		}).Info("Run finished")
	}

	if notifier != nil {
		if err := notifier.Notify(ctx, notify.RunMessage(year, stats, runErr)); err != nil {
			log.WithError(err).Warn("Failed to send notification")
		}
	}

	if summary && stats != nil {
		fmt.Fprintln(stderr, RenderSummary(stats))
	}

	return runErr
}

func newFetcher(cfg *config.Config) (fetcher.Fetcher, func(), error) {
	opts := fetcher.Options{
		Timeout:   cfg.Fetch.RequestTimeout(),
		UserAgent: cfg.Fetch.UserAgent,
	}

	if !cfg.Fetch.Browser {
		return fetcher.NewCollyFetcher(cfg.Source.Endpoint, opts), func() {}, nil
	}

	rf, err := fetcher.NewRodFetcher(cfg.Source.Endpoint, opts)
	if err != nil {
		return nil, nil, err
	}
	return rf, func() { rf.Close() }, nil
}

func newSink(ctx context.Context, cfg *config.Config, year int, stdout io.Writer, log *logrus.Logger) (output.Sink, error) {
	csvSink, err := output.NewCSVSink(stdout, cfg.Output.Encoding, cfg.Output.Quoting)
	if err != nil {
		return nil, err
	}

	if cfg.Sheets.SpreadsheetURL == "" {
		return csvSink, nil
	}

	spreadsheetID := sheets.ExtractSpreadsheetID(cfg.Sheets.SpreadsheetURL)
	if spreadsheetID == "" {
		return nil, fmt.Errorf("could not extract spreadsheet ID from URL: %s", cfg.Sheets.SpreadsheetURL)
	}

	writer, err := sheets.NewWriter(ctx, spreadsheetID, cfg.Sheets.Credentials, log)
	if err != nil {
		return nil, err
	}

	name, sheetID, err := writer.CreateSheet(fmt.Sprintf("%s_%d", cfg.Sheets.SheetPrefix, year))
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"sheet": name,
		"url":   sheets.SheetURL(spreadsheetID, sheetID),
	}).Info("Copying results to Google Sheets")

	return output.Multi(csvSink, writer), nil
}

// newNotifier returns nil when notifications are off or the bot cannot be
// reached; a missing notifier never fails the run
func newNotifier(cfg *config.Config, log *logrus.Logger) *notify.Telegram {
	if cfg.Notify.TelegramChatID == 0 {
		return nil
	}

	t, err := notify.NewTelegram(os.Getenv(cfg.Notify.TokenEnv), cfg.Notify.TelegramChatID)
	if err != nil {
		log.WithError(err).Warn("Telegram notifications disabled")
		return nil
	}
	return t
}
