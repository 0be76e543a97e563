package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/stressavg/internal/config"
	"github.com/san-kum/stressavg/internal/experiment"
	"github.com/san-kum/stressavg/internal/logging"
	"github.com/san-kum/stressavg/internal/storage"
	"github.com/san-kum/stressavg/internal/viz"
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "stressavg",
		Short:        "average replicate stress-strain curves",
		Args:         cobra.NoArgs,
		RunE:         runPipeline,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file path (yaml)")
	pf.String("dir", "", "base directory holding the run folders")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.StringSlice("runs", nil, "run folders, in order")
	pf.Int("num-data", 0, "data rows per run")

	rootCmd.AddCommand(newRunCmd(), newPreviewCmd(), newPlotCmd(), newConfigCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "write the summary csv and the figure",
		Args:  cobra.NoArgs,
		RunE:  runPipeline,
	}
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "analyze and print the result without writing files",
		Args:  cobra.NoArgs,
		RunE:  runPreview,
	}
	cmd.Flags().Bool("json", false, "print the report as json")
	return cmd
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot",
		Short: "plot the mean stress of a written summary",
		Args:  cobra.NoArgs,
		RunE:  plotSummary,
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  showConfig,
	}
	cmd.Flags().String("write", "", "save the configuration to this path")
	return cmd
}

// loadConfig reads the config file, or the defaults, and applies the flags
// the user set on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := config.DefaultConfig()
	if path, _ := flags.GetString("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if flags.Changed("dir") {
		cfg.BaseDir, _ = flags.GetString("dir")
	}
	if flags.Changed("runs") {
		cfg.Runs, _ = flags.GetStringSlice("runs")
	}
	if flags.Changed("num-data") {
		cfg.Input.NumData, _ = flags.GetInt("num-data")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command) (*experiment.Experiment, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	lc := logging.DefaultConfig()
	lc.Level, _ = cmd.Flags().GetString("log-level")
	logger, err := logging.New(lc)
	if err != nil {
		return nil, nil, err
	}
	return experiment.New(*cfg, logger), logger, nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	exp, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	rep, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), viz.RenderReport(rep, nil, nil))
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	exp, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	res, err := exp.Analyze(cmd.Context())
	if err != nil {
		return err
	}
	rep := res.Report()

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, rep)
	}

	fmt.Fprintln(out, viz.Plot(res.Summary.Strain, res.Mean, "smoothed mean stress (GPa)"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.RenderReport(rep, res.Mean, res.Spread))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func plotSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.BaseDir)
	sum, err := st.LoadSummary(cfg.Output.SummaryCSV)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d samples, %d runs\n\n", st.Path(cfg.Output.SummaryCSV), sum.Samples(), sum.Runs())
	fmt.Fprintln(out, viz.Plot(sum.Strain, sum.Mean, "mean stress (GPa)"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.Plot(sum.Strain, sum.Spread, "stress spread (GPa)"))
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("write"); path != "" {
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "config written to %s\n", path)
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
