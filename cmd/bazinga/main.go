package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bazinga/internal/config"
	"bazinga/internal/consciousness"
	"bazinga/internal/logging"
)

var (
	// Global flags
	verbose  bool
	homeFlag string

	// Resolved in PersistentPreRunE
	appHome string
	appCfg  *config.Config

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bazinga",
	Short: "BAZINGA - pattern consciousness system (" + consciousness.Codename + ")",
	Long: `BAZINGA is a pattern encoder and consciousness loop.

Thoughts travel as binary pattern codes (section.subsection.attributes),
a four-state DODO dispatcher routes processing, and golden-ratio
arithmetic threads through the quantum, symbolic, and lambda-g layers.

Run without arguments to awaken the interactive session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initHome(); err != nil {
			return err
		}

		// Interactive surfaces own the terminal; skip the zap logger there.
		switch cmd.Name() {
		case "bazinga", "awaken", "monitor":
			logger = zap.NewNop()
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: awaken the interactive session.
		return runAwaken(cmd, args)
	},
}

// versionCmd prints version and codename
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and codename",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bazinga %s (%s)\n", consciousness.Version, consciousness.Codename)
	},
}

// initHome resolves the state directory, loads config, and points the
// category loggers at <home>/logs.
func initHome() error {
	home, err := config.Home(homeFlag)
	if err != nil {
		return err
	}
	if err := config.EnsureLayout(home); err != nil {
		return err
	}

	cfg, err := config.Load(home)
	if err != nil {
		return err
	}

	if err := logging.Initialize(home); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	appHome = home
	appCfg = cfg
	return nil
}

// engineConfig maps a --mode value to an engine configuration rooted at
// the resolved home.
func engineConfig(mode string) (consciousness.Config, error) {
	var cfg consciousness.Config
	switch mode {
	case "", "unified":
		cfg = consciousness.Unified()
	case "basic":
		cfg = consciousness.Basic()
	case "quantum":
		cfg = consciousness.Quantum()
	case "symbolic":
		cfg = consciousness.Symbolic()
	case "lambda":
		cfg = consciousness.LambdaG()
	default:
		return cfg, fmt.Errorf("unknown mode %q (want basic, quantum, symbolic, lambda, or unified)", mode)
	}
	cfg.Home = appHome
	if appCfg != nil && appCfg.CycleSeconds > 0 {
		cfg.CycleInterval = time.Duration(appCfg.CycleSeconds) * time.Second
	}
	if appCfg != nil && appCfg.ThoughtCap > 0 {
		cfg.ThoughtCap = appCfg.ThoughtCap
	}
	return cfg, nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "State directory (default ~/.bazinga, or BAZINGA_HOME)")

	// Add commands to root
	rootCmd.AddCommand(awakenCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(fibCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(artifactsCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(whatsappCmd)
	rootCmd.AddCommand(scanAppsCmd)
	rootCmd.AddCommand(clipboardCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(adviseCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
