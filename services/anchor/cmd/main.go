package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/redbco/redb-driverhub/pkg/config"
	"github.com/redbco/redb-driverhub/pkg/driverloader"
	"github.com/redbco/redb-driverhub/pkg/keyring"
	"github.com/redbco/redb-driverhub/pkg/logger"
	"github.com/redbco/redb-driverhub/services/anchor/internal/engine"
	"github.com/redbco/redb-driverhub/services/anchor/internal/telemetry"
)

var (
	configFile string
	logLevel   string

	// Build information, set with -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"

	cfg    *config.Config
	log    *logger.Logger
	anchor *engine.Engine
	server *engine.Server
)

func printVersionInfo() {
	fmt.Printf("reDB driverhub %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

var rootCmd = &cobra.Command{
	Use:   "driverhub",
	Short: "reDB database driver hub",
	Long: "Loads database driver plugins, opens connections through them and runs SQL and " +
		"metadata operations against the connected engines.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			printVersionInfo()
			return nil
		}
		return cmd.Help()
	},
}

// setup loads configuration and wires the engine. Commands that only touch
// files (config init) skip it through the skipSetup annotation.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations["skipSetup"] == "true" {
		return nil
	}

	var err error
	cfg, err = loadConfig(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	log = logger.NewWithOptions("driverhub", Version, cfg.Logging)
	driverloader.Init(nil, log.Named("loader"))

	secrets, err := keyring.Open(cfg.Keyring.Path, keyring.MasterPasswordFromEnv())
	if err != nil {
		log.Debug("Keyring unavailable: %v", err)
		secrets = nil
	}

	anchor = engine.NewEngine(cfg,
		engine.WithLogger(log),
		engine.WithKeyring(secrets),
		engine.WithMetrics(telemetry.NewMetrics(prometheus.NewRegistry())),
	)
	server = engine.NewServer(anchor)
	return anchor.Start(cmd.Context())
}

func teardown(cmd *cobra.Command, _ []string) error {
	if anchor == nil {
		return nil
	}
	err := server.Shutdown(context.Background(), 5*time.Second)
	driverloader.Teardown()
	if log != nil {
		_ = log.Sync()
	}
	return err
}

// loadConfig reads path, falling back to defaults when the file is absent.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// result prints resp and turns an unsuccessful response into an error so
// the process exits non-zero.
func result(resp interface{}, r engine.Response) error {
	if err := printJSON(resp); err != nil {
		return err
	}
	if !r.Success {
		return fmt.Errorf("%s: %s", r.Status, r.Message)
	}
	return nil
}

func init() {
	home, _ := os.UserHomeDir()
	rootCmd.PersistentFlags().StringVar(&configFile, "config", home+"/.redb/driverhub.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.Flags().Bool("version", false, "Show version information and exit")

	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRunE = teardown

	setupCommands()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
