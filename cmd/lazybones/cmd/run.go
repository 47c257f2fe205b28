package cmd

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/krew-solutions/lazybones-go/examples/demo"
	"github.com/krew-solutions/lazybones-go/lazybones/config"
	"github.com/krew-solutions/lazybones-go/lazybones/metrics"
)

func newRunCommand(v *viper.Viper) *cobra.Command {
	var tick time.Duration

	cmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "Run the demo activity through a scenario",
		Long: `Run the demo activity through a scenario file, or through the built-in
rotate-twice scenario when no file is given. Every callback the activity
performs is printed as it happens.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, v, args, tick)
		},
	}

	cmd.Flags().String("mode", "", "lazy mode: none, synchronized or publication")
	cmd.Flags().Int("pool-size", 0, "run jobs on a bounded worker pool of this size")
	cmd.Flags().String("log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().Bool("metrics", false, "print collected metrics after the scenario")
	cmd.Flags().DurationVar(&tick, "tick", 0, "collect a ticker while started, emitting at this interval")
	_ = v.BindPFlag("lazy.mode", cmd.Flags().Lookup("mode"))
	_ = v.BindPFlag("scheduler.pool_size", cmd.Flags().Lookup("pool-size"))
	_ = v.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
	_ = v.BindPFlag("metrics.enabled", cmd.Flags().Lookup("metrics"))
	return cmd
}

func runScenario(cmd *cobra.Command, v *viper.Viper, args []string, tick time.Duration) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(cmd.ErrOrStderr())
	mode, err := cfg.LazyMode()
	if err != nil {
		return err
	}
	scheduler, release, err := cfg.NewScheduler()
	if err != nil {
		return err
	}
	defer release()

	scenario := demo.DefaultScenario()
	if len(args) == 1 {
		if scenario, err = demo.LoadScenario(args[0]); err != nil {
			return err
		}
	}

	var collector *metrics.Collector
	registry := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
		registry.MustRegister(collector)
	}

	activity, err := demo.NewActivity(demo.Options{
		Mode:         mode,
		Logger:       logger,
		Metrics:      collector,
		Scheduler:    scheduler,
		Out:          cmd.OutOrStdout(),
		TickInterval: tick,
	})
	if err != nil {
		return err
	}

	logger.Info("running scenario",
		slog.String("scenario", scenario.Name),
		slog.Int("steps", len(scenario.Steps)),
		slog.String("mode", mode.String()),
		slog.String("owner_id", activity.ID().String()))
	if err := demo.Run(cmd.Context(), activity, scenario); err != nil {
		return errors.Wrapf(err, "scenario %s", scenario.Name)
	}
	logger.Info("scenario finished", slog.String("state", activity.CurrentState().String()))

	if !cfg.Metrics.Enabled {
		return nil
	}
	families, err := registry.Gather()
	if err != nil {
		return errors.Wrap(err, "unable to gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
			return errors.Wrap(err, "unable to write metrics")
		}
	}
	return nil
}
