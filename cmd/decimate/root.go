package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lucasew/decimate/internal/app"
	"github.com/lucasew/decimate/internal/eviction"
	"github.com/lucasew/decimate/internal/eviction/atime"
	"github.com/lucasew/decimate/internal/eviction/policy/minfree"
	"github.com/lucasew/decimate/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "decimate",
	Short: "Evicts the least recently accessed cache files when disk space runs low",
	Long: `decimate checks the free space of the volume hosting a cache directory and,
when it is at or below the threshold, removes the least recently accessed
tenth of the files in it. Without --delete it only logs what it would remove.`,
	Version:           version(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := app.NewManager(ctx, loadConfig(ctx))
		if err != nil {
			return err
		}

		_, err = mgr.RunOnce(ctx)
		return err
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if _, printErr := fmt.Fprintln(os.Stderr, "Error:", err); printErr != nil {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	flags.StringP("cache", "c", "/data/shm_cache/", "Where the cached files are stored")
	flags.Float64P("free", "f", minfree.DefaultThreshold, "Delete files if we have this much free space (percent) or less")
	flags.BoolP("delete", "d", false, "Delete files for real (otherwise just log what would be deleted)")
	flags.Int("evict-percent", eviction.DefaultEvictPercent, "Percentage of the cached files removed by one pass")
	flags.Uint64("min-free-bytes", 0, "Also delete files if available bytes drop to this value (0 disables)")
	flags.String("strategy", atime.Name, "Ranking strategy used to pick victims ("+strings.Join(eviction.Strategies(), ", ")+")")
	flags.Bool("progress", false, "Show a progress bar on stderr while removing files")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")

	for _, name := range []string{
		"cache", "free", "delete", "evict-percent", "min-free-bytes",
		"strategy", "progress", "log-level", "log-format",
	} {
		mustBindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	viper.SetEnvPrefix("DECIMATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
	}
}

// setup reads the optional config file and puts the logger in the command context.
func setup(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	logger, err := logging.New(os.Stderr, viper.GetString("log-level"), viper.GetString("log-format"))
	if err != nil {
		return err
	}
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	logger.Info("decimate", "version", version())
	if cfgFile != "" {
		logger.Debug("Loaded config file", "path", viper.ConfigFileUsed())
	}
	return nil
}

func loadConfig(ctx context.Context) app.Config {
	cfg := app.Config{
		CacheDir:         viper.GetString("cache"),
		FreeThreshold:    viper.GetFloat64("free"),
		MinFreeBytes:     viper.GetUint64("min-free-bytes"),
		Commit:           viper.GetBool("delete"),
		EvictPercent:     viper.GetInt("evict-percent"),
		EvictionStrategy: viper.GetString("strategy"),
	}
	if viper.GetBool("progress") {
		cfg.Progress = progressBar(ctx)
	}
	return cfg
}
