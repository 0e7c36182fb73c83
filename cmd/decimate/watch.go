package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lucasew/decimate/internal/app"
	"github.com/lucasew/decimate/internal/errutil"
	"github.com/lucasew/decimate/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Checks free space periodically and evicts files whenever it runs low",
	Long: `watch runs a pass immediately, then once per interval and whenever the
process receives SIGHUP, until it is interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := loadConfig(ctx)
		cfg.Interval = viper.GetDuration("interval")

		mgr, err := app.NewManager(ctx, cfg)
		if err != nil {
			return err
		}

		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		log := logging.FromContext(ctx)
		log.Info("Watching cache", "cache", cfg.CacheDir, "interval", cfg.Interval, "commit", cfg.Commit)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			mgr.Start(ctx)
			return nil
		})
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hup:
					log.Info("Received SIGHUP, running eviction pass")
					if _, err := mgr.RunOnce(ctx); err != nil {
						errutil.ReportError(ctx, err, "Eviction pass failed")
					}
				}
			}
		})

		err = g.Wait()
		log.Info("Stopped watching cache")
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("interval", 5*time.Minute, "Interval between free space checks")
	mustBindPFlag("interval", watchCmd.Flags().Lookup("interval"))
}
