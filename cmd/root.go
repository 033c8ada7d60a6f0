package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio-cli/internal/adapters/codec"
	"github.com/kamal-hamza/folio-cli/internal/core/services"
	"github.com/kamal-hamza/folio-cli/pkg/config"
	"github.com/kamal-hamza/folio-cli/pkg/logger"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
	"github.com/kamal-hamza/folio-cli/pkg/workspace"
)

var (
	// Global flags
	configPathFlag string
	verboseFlag    bool

	// Global state
	appWorkspace *workspace.Workspace
	appConfig    *config.Config
	appLog       *logrus.Logger
	appFs        afero.Fs

	// Services
	codecRegistry   *codec.Registry
	optimizeService *services.OptimizeService
	urlRewriter     *services.URLRewriter
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - portfolio media optimizer",
	Long: ui.StyleTitle.Render("folio") + " - Portfolio Media Optimizer\n\n" +
		"Shrinks images and GIFs to web-friendly sizes and adds delivery\n" +
		"parameters to the CDN links in your portfolio records.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err.Error()))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(urlsCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Config file (default $XDG_CONFIG_HOME/folio/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show debug logs")
}

// initializeApp loads configuration and wires the services
func initializeApp(cmd *cobra.Command, args []string) error {
	// Skip initialization for version command
	if cmd.Name() == "version" {
		return nil
	}

	ws, err := workspace.New()
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	if configPathFlag != "" {
		ws.ConfigPath = configPathFlag
	}
	appWorkspace = ws

	appLog = logger.New(verboseFlag, os.Stderr)

	if err := config.LoadEnvFile(ws.EnvPath); err != nil {
		appLog.WithError(err).Warn("Ignoring .env file")
	}

	cfg, err := config.Load(ws.ConfigPath)
	if err != nil {
		// A broken file can still be replaced with defaults
		if cmd != configInitCmd {
			return err
		}
		cfg = config.DefaultConfig()
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	appConfig = cfg

	ui.SetTheme(cfg.ColorTheme)

	// The config command must work on a broken file so it can be fixed
	if cmd.Name() != "config" && cmd.Parent() != configCmd {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration in %s:\n%w", ws.ConfigPath, err)
		}
	}

	appLog.WithFields(logrus.Fields{
		"config":        ws.ConfigPath,
		"max_dimension": cfg.MaxDimension,
		"max_gif_mb":    cfg.MaxGIFSizeMB,
	}).Debug("Configuration loaded")

	appFs = afero.NewOsFs()
	wireServices()

	return nil
}

// wireServices builds the services from appConfig. Commands call it again
// after applying their flags.
func wireServices() {
	codecRegistry = codec.NewRegistry(appConfig.JPEGQuality)
	optimizeService = services.NewOptimizeService(appFs, codecRegistry, codec.NewSniffer(), services.NewScaler(), appLog)
	urlRewriter = services.NewURLRewriter(appConfig.CDNBase)
}

// getContext returns a context for operations
func getContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
