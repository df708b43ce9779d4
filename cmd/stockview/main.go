package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/raykavin/stockview"
	"github.com/raykavin/stockview/internal/config"
	"github.com/raykavin/stockview/pkg/core"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/xhit/go-str2duration/v2"
)

// Command line flags
var (
	configPath string
	apiURL     string
	dataDir    string
	timeout    string
	port       int
	debug      bool

	// Show command flags
	rows int

	// Render command flags
	outputDir string
	width     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "stockview",
		Short:        "Candlestick charts for historical and predicted stock prices",
		Version:      "1.0.0",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Prediction service base URL (e.g. http://localhost:8000)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Read SYMBOL.csv and SYMBOL_prediction.csv files instead of the service")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "", "Prediction service timeout (e.g. 30s, 2m)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Serve unminified scripts and log debug messages")

	rootCmd.AddCommand(buildServeCmd(), buildShowCmd(), buildRenderCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chart server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Chart server port (default 8080)")

	return serveCmd
}

func buildShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show SYMBOL",
		Short: "Print quote, recent bars and return statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	showCmd.Flags().IntVarP(&rows, "rows", "r", 10, "Number of historical bars to print")

	return showCmd
}

func buildRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render SYMBOL...",
		Short: "Write the close-price line chart of each symbol as PNG",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRender,
	}

	renderCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	renderCmd.Flags().IntVarP(&width, "width", "w", 960, "Image width in pixels")

	return renderCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := initializeApp(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Serve(ctx)
}

func runShow(cmd *cobra.Command, args []string) error {
	app, err := initializeApp(cmd)
	if err != nil {
		return err
	}

	return app.Summary(cmd.Context(), cmd.OutOrStdout(), args[0], rows)
}

func runRender(cmd *cobra.Command, args []string) error {
	app, err := initializeApp(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var failed []string
	progressBar := progressbar.Default(int64(len(args)), "rendering")
	for _, symbol := range args {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		path := filepath.Join(outputDir, symbol+".png")

		if err := app.RenderLine(cmd.Context(), symbol, path, width); err != nil {
			stockview.DefaultLog.WithField("symbol", symbol).WithError(err).Warn("render failed")
			failed = append(failed, symbol)
		}

		if err := progressBar.Add(1); err != nil {
			stockview.DefaultLog.Warnf("update progressbar fail: %v", err)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to render %s", strings.Join(failed, ", "))
	}
	return nil
}

// initializeApp loads settings, applies command line overrides and builds the app
func initializeApp(cmd *cobra.Command) (*stockview.StockView, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, settings); err != nil {
		return nil, err
	}

	log, err := stockview.NewLogger(settings.Log)
	if err != nil {
		return nil, err
	}
	stockview.DefaultLog = log

	return stockview.New(*settings, stockview.WithLogger(log)), nil
}

func applyFlags(cmd *cobra.Command, settings *core.Settings) error {
	flags := cmd.Flags()

	if flags.Changed("api-url") {
		settings.APIURL = strings.TrimRight(apiURL, "/")
	}

	if flags.Changed("data-dir") {
		settings.DataDir = dataDir
	}

	if flags.Changed("timeout") {
		duration, err := str2duration.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		settings.HTTPTimeout = duration
	}

	if flags.Changed("port") {
		settings.Port = port
	}

	if flags.Changed("debug") {
		settings.Debug = debug
		if debug {
			settings.Log.Level = "debug"
		}
	}

	return config.Validate(settings)
}
