// Command gridq runs value iteration and deep Q-network experiments on
// a square grid world
package main

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/gridq/experiment"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configFile string
	verbose    bool
	seed       uint64
	outputDir  string

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gridq",
	Short: "Value iteration and a deep Q-network on a square grid world",
	Long: `gridq solves a square grid world whose two opposite corners are
terminal, either with tabular value iteration or by training a small
deep Q-network one cell at a time.

Experiments are described by a YAML file given with --config. Keys that
are left out keep their default values.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// valueIterCmd runs value iteration
var valueIterCmd = &cobra.Command{
	Use:   "valueiter",
	Short: "Run tabular value iteration and roll out its greedy policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		result, err := experiment.RunValueIteration(c, logger,
			cmd.OutOrStdout())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "sweeps: %d  converged: %v\n",
			result.Result.Iterations, result.Result.Converged)
		printEpisode(cmd, result.Episode)
		return nil
	},
}

// deepQCmd trains the deep Q-network
var deepQCmd = &cobra.Command{
	Use:   "deepq",
	Short: "Train the deep Q-network and roll out its greedy policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		result, err := experiment.RunDeepQ(c, logger, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer result.Agent.Close()

		if n := result.Losses.Len(); n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "updates: %d  final loss: %.5f\n",
				n, result.Losses.Data()[n-1])
		}
		printEpisode(cmd, result.Episode)
		return nil
	},
}

// loadConfig returns the experiment configuration, applying the flags
// that were explicitly set on top of the configuration file
func loadConfig(cmd *cobra.Command) (experiment.Config, error) {
	c := experiment.DefaultConfig()
	if configFile != "" {
		var err error
		if c, err = experiment.LoadConfig(configFile); err != nil {
			return experiment.Config{}, err
		}
	}

	if cmd.Flags().Changed("seed") {
		c.Seed = seed
	}
	if cmd.Flags().Changed("output") {
		c.Output.Dir = outputDir
	}

	logger.Debug("loaded configuration",
		zap.String("file", configFile),
		zap.Uint64("seed", c.Seed),
		zap.String("output", c.Output.Dir),
	)
	return c, nil
}

func printEpisode(cmd *cobra.Command, ep experiment.Episode) {
	fmt.Fprintf(cmd.OutOrStdout(), "greedy episode: return %.2f  length %d"+
		"  end %v\n", ep.Return, ep.Length, ep.End)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"YAML experiment configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log at debug level")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 1,
		"seed for start cells and slippery moves")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "",
		"directory to save series, charts, and heat maps to")

	rootCmd.AddCommand(valueIterCmd, deepQCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
