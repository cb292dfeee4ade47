package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-metadata-inspector/internal/config"
	"github.com/deploymenttheory/go-metadata-inspector/internal/console"
	"github.com/deploymenttheory/go-metadata-inspector/internal/exiftool"
	"github.com/deploymenttheory/go-metadata-inspector/internal/export"
	"github.com/deploymenttheory/go-metadata-inspector/internal/fileanalyzer"
	"github.com/deploymenttheory/go-metadata-inspector/internal/logger"
	"github.com/deploymenttheory/go-metadata-inspector/internal/processor"
)

var (
	cfgFile string
	cfg     config.Config
	logFile *os.File

	// Set at build time with -ldflags "-X main.version=..."
	version = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Errorf("Error executing command: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "metadata-inspector",
		Short: "Inspect image and PDF metadata for OSINT exposure",
		Long: `An interactive tool that extracts EXIF and document metadata from images
and PDF files, rates each field by the kind of information it exposes
(location, timestamps, device fingerprints, software) and optionally exports
the full metadata to JSON or CSV.`,
		Version:           version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: teardown,
		RunE:              runInspector,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./"+config.DefaultFile+" if present)")

	// Logging flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose debugging output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("log-file", "", "write diagnostics to file instead of stderr")

	// Inspector flags
	rootCmd.Flags().String("exiftool", "exiftool", "path to the exiftool executable")
	rootCmd.Flags().StringP("output-dir", "o", ".", "directory for exported metadata files")
	rootCmd.Flags().Bool("no-banner", false, "do not print the start-up banner")

	return rootCmd
}

// setup loads the configuration and configures logging from it
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = parseConfig(cmd)
	if err != nil {
		return fmt.Errorf("error parsing configuration: %w", err)
	}

	setupLogging(cfg)
	return nil
}

// setupLogging configures the logger based on the merged configuration
func setupLogging(cfg config.Config) {
	if cfg.Verbose {
		logger.SetLevel(logger.LevelDebug)
		logger.Infof("Debug logging enabled")
	} else {
		logger.SetLevel(logger.LevelWarning)
	}

	if cfg.NoColor {
		logger.DisableColors()
	}

	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			logger.Errorf("Failed to open log file: %v", err)
			return
		}
		logFile = file

		// Disable colors when logging to file
		logger.DisableColors()
		logger.Initialize(file, file, file, file)
		logger.Infof("Logging to file: %s", cfg.LogFile)
	}
}

func teardown(cmd *cobra.Command, args []string) {
	if logFile != nil {
		logFile.Close()
	}
}

func runInspector(cmd *cobra.Command, args []string) error {
	logger.Infof("Starting metadata inspector %s", version)
	logger.Debugf("Configuration: exiftool=%s output_dir=%s", cfg.ExifToolPath, cfg.OutputDir)

	out := console.New(cmd.OutOrStdout(), !cfg.NoColor && !color.NoColor)
	if cfg.ShowBanner {
		out.Banner(version)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Setup signal handling: stop any running extraction, then leave
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	go func() {
		select {
		case sig := <-signalChan:
			logger.Infof("Received signal %v, shutting down", sig)
			cancel()
			out.Println()
			teardown(cmd, args)
			os.Exit(130)
		case <-ctx.Done():
		}
	}()

	session := processor.New(
		out,
		console.NewPrompter(cmd.InOrStdin(), out),
		fileanalyzer.NewManager(),
		exiftool.New(cfg.ExifToolPath),
		export.New(cfg.OutputDir),
	)

	err := session.Run(ctx)

	stats := session.Stats()
	logger.Infof("Inspector finished in %v", session.Duration())
	logger.Infof("Files processed: %d, errors: %d", stats.FilesProcessed, stats.Errors)

	return err
}

// parseConfig loads the config file, then applies every flag the user set
// explicitly on top of it
func parseConfig(cmd *cobra.Command) (config.Config, error) {
	c, err := config.Load(cfgFile)
	if err != nil {
		return c, err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		c.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("no-color") {
		c.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("log-file") {
		c.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("exiftool") {
		c.ExifToolPath, _ = flags.GetString("exiftool")
	}
	if flags.Changed("output-dir") {
		c.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("no-banner") {
		noBanner, _ := flags.GetBool("no-banner")
		c.ShowBanner = !noBanner
	}

	return c, c.Validate()
}
