// Package main provides the spotpick CLI application entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"spotpick/internal/catalog"
	"spotpick/internal/core"
	httpserver "spotpick/internal/http"
	"spotpick/internal/platform"
	"spotpick/internal/tui"
)

const envPrefix = "SPOTPICK"

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spotpick",
	Short: "spotpick - search the music catalog and play on this machine",
	Long: `spotpick searches the music catalog as you type, lists matching tracks and
plays the chosen track or its album in the local player.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file (interactive mode discards logs otherwise)")
	rootCmd.PersistentFlags().String("catalog-base-url", core.DefaultCatalogBaseURL, "Catalog API base URL")
	rootCmd.PersistentFlags().Int("catalog-timeout-secs", core.DefaultCatalogTimeoutSecs, "Catalog request timeout in seconds")
	rootCmd.PersistentFlags().Int("catalog-limit", 0, "Maximum results per search (0 lets the catalog decide)")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID (optional, enables app tokens)")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().String("player-app", core.DefaultPlayerApp, "Player application driven on macOS")
	rootCmd.PersistentFlags().String("mpris-bus-name", core.DefaultMPRISBusName, "MPRIS bus name of the player on Linux")
	rootCmd.PersistentFlags().String("platform", "", "Override the detected platform (darwin, linux, windows, ...)")
	rootCmd.PersistentFlags().Int("min-query-length", core.DefaultMinQueryLength, "Minimum query length before searching")
	rootCmd.PersistentFlags().Int("debounce-ms", core.DefaultDebounceMillis, "Typing pause before searching, in milliseconds")
	rootCmd.PersistentFlags().Int("cache-size", core.DefaultCacheSize, "Number of query results cached in a session (0 disables)")
	rootCmd.PersistentFlags().Int("cache-ttl-secs", core.DefaultCacheTTLSecs, "Lifetime of a cached query result in seconds")
	rootCmd.PersistentFlags().Bool("metrics-enabled", false, "Serve Prometheus metrics while running")
	rootCmd.PersistentFlags().String("server-host", "127.0.0.1", "Metrics server host")
	rootCmd.PersistentFlags().Int("server-port", core.DefaultServerPort, "Metrics server port")
	rootCmd.Flags().Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(searchCmd, playCmd)
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()

	var err error
	logger, err = buildLogger(config.Log.Level, config.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, logging to stderr\n", err)
		logger, _ = buildLogger(config.Log.Level, "")
	}
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureCatalog(cfg)
	configurePlayer(cfg)
	configureSearch(cfg)
	configureServer(cfg)

	return cfg
}

func configureCatalog(cfg *core.Config) {
	if baseURL := viper.GetString("catalog-base-url"); baseURL != "" {
		cfg.Catalog.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if secs := viper.GetInt("catalog-timeout-secs"); secs != 0 {
		cfg.Catalog.Timeout = time.Duration(secs) * time.Second
	}
	cfg.Catalog.Limit = viper.GetInt("catalog-limit")
	cfg.Catalog.ClientID = viper.GetString("spotify-client-id")
	cfg.Catalog.ClientSecret = viper.GetString("spotify-client-secret")
}

func configurePlayer(cfg *core.Config) {
	if app := viper.GetString("player-app"); app != "" {
		cfg.Player.App = app
	}
	if busName := viper.GetString("mpris-bus-name"); busName != "" {
		cfg.Player.MPRISBusName = busName
	}
	cfg.Player.Platform = strings.TrimSpace(viper.GetString("platform"))
}

func configureSearch(cfg *core.Config) {
	if viper.IsSet("min-query-length") {
		cfg.Search.MinQueryLength = viper.GetInt("min-query-length")
	}
	if viper.IsSet("debounce-ms") {
		cfg.Search.Debounce = time.Duration(viper.GetInt("debounce-ms")) * time.Millisecond
	}
	if viper.IsSet("cache-size") {
		cfg.Search.CacheSize = viper.GetInt("cache-size")
	}
	if cfg.Search.CacheSize < 0 {
		fmt.Fprintf(os.Stderr, "Warning: Invalid cache size (%d), using default (%d)\n",
			cfg.Search.CacheSize, core.DefaultCacheSize)
		cfg.Search.CacheSize = core.DefaultCacheSize
	}
	if secs := viper.GetInt("cache-ttl-secs"); secs > 0 {
		cfg.Search.CacheTTL = time.Duration(secs) * time.Second
	}
}

func configureServer(cfg *core.Config) {
	cfg.Server.Enabled = viper.GetBool("metrics-enabled")
	if host := viper.GetString("server-host"); host != "" {
		cfg.Server.Host = host
	}
	if port := viper.GetInt("server-port"); port != 0 {
		cfg.Server.Port = port
	}
	if level := viper.GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	cfg.Log.File = viper.GetString("log-file")
}

func buildLogger(level, file string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	}

	builtLogger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return builtLogger, nil
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	if generate, _ := cmd.Flags().GetBool("generate-env-example"); generate {
		return generateEnvExample(cmd)
	}

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// The picker owns the terminal.
	if config.Log.File == "" {
		logger = zap.NewNop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pane := &tui.MetadataPane{}
	status := &tui.StatusLine{}
	svcs := initializeServices(status, pane)

	model := tui.New(tui.Options{
		Finder:         svcs.finder,
		Resolver:       svcs.resolver,
		MinQueryLength: config.Search.MinQueryLength,
		Debounce:       config.Search.Debounce,
		CacheSize:      config.Search.CacheSize,
		CacheTTL:       config.Search.CacheTTL,
		Metadata:       pane,
		Status:         status,
		Logger:         logger.Named("tui"),
	})

	logger.Info("Starting spotpick",
		zap.String("catalog", config.Catalog.BaseURL),
		zap.String("platform", svcs.dispatcher.PlatformID()),
		zap.Bool("metrics_enabled", config.Server.Enabled))

	return runServices(ctx, svcs, func(ctx context.Context) error {
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("picker failed: %w", err)
		}
		return nil
	})
}

type services struct {
	finder     *core.Finder
	resolver   *core.ActionResolver
	playback   *core.PlaybackController
	dispatcher *platform.Dispatcher
	httpServer *httpserver.Server
}

// initializeServices wires the search and playback pipeline. Metrics are
// recorded only when the metrics server is enabled.
func initializeServices(notifier platform.Notifier, viewer core.MetadataViewer) *services {
	var metrics core.MetricsRecorder = core.NopMetrics{}
	var httpServer *httpserver.Server
	if config.Server.Enabled {
		httpServer = httpserver.NewServer(&config.Server, logger.Named("http"))
		metrics = httpServer.Metrics()
	}

	client := catalog.NewClient(&config.Catalog, logger.Named("catalog"), metrics)
	dispatcher := platform.NewDispatcher(&config.Player, notifier, metrics, logger.Named("platform"))
	playback := core.NewPlaybackController(dispatcher, logger.Named("core"))

	return &services{
		finder:     core.NewFinder(client, logger.Named("core")),
		resolver:   core.NewActionResolver(playback, viewer),
		playback:   playback,
		dispatcher: dispatcher,
		httpServer: httpServer,
	}
}

// runServices runs fn, with the metrics server alongside it when enabled.
// The server is stopped as soon as fn returns.
func runServices(ctx context.Context, svcs *services, fn func(ctx context.Context) error) error {
	if svcs.httpServer == nil {
		return fn(ctx)
	}

	g, gCtx := errgroup.WithContext(ctx)
	serverCtx, stopServer := context.WithCancel(gCtx)

	g.Go(func() error {
		return svcs.httpServer.Start(serverCtx)
	})

	g.Go(func() error {
		defer stopServer()
		return fn(gCtx)
	})

	logger.Info("Metrics server enabled",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("spotpick stopped with error", zap.Error(err))
		return err
	}

	return nil
}

func validateConfig() error {
	if err := validateCatalogConfig(); err != nil {
		return err
	}

	if err := validateSearchConfig(); err != nil {
		return err
	}

	return nil
}

func validateCatalogConfig() error {
	u, err := url.Parse(config.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("catalog base URL %q must be an absolute URL", config.Catalog.BaseURL)
	}

	if config.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog timeout must be positive, got %s", config.Catalog.Timeout)
	}

	if config.Catalog.Limit < 0 {
		return fmt.Errorf("catalog limit must not be negative, got %d", config.Catalog.Limit)
	}

	if (config.Catalog.ClientID == "") != (config.Catalog.ClientSecret == "") {
		return fmt.Errorf("spotify client ID and client secret must be set together")
	}

	return nil
}

func validateSearchConfig() error {
	if config.Search.MinQueryLength < 1 {
		return fmt.Errorf("minimum query length must be at least 1, got %d", config.Search.MinQueryLength)
	}

	if config.Search.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", config.Search.Debounce)
	}

	return nil
}
