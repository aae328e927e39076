// Command pumpcurve fits head and efficiency curves to pump test data and reports or plots
// the result
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aouyang1/go-pumpcurve/config"
	"github.com/aouyang1/go-pumpcurve/pump"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var ErrUnknownFormat = errors.New("unknown output format")

// createChart opens the chart output file
var createChart = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %s", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := new(app)

	rootCmd := &cobra.Command{
		Use:               "pumpcurve",
		Short:             "Fit polynomial performance curves to pump test data",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a yaml config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	fitCmd := &cobra.Command{
		Use:     "fit <file>",
		Short:   "Print the fitted coefficients for a pump data file",
		Args:    cobra.ExactArgs(1),
		RunE:    a.runFitCmdF,
		Example: "pumpcurve fit pump.txt --format json",
	}
	fitCmd.Flags().Int("degree", config.DefaultDegree, "polynomial degree of both fits")
	fitCmd.Flags().String("format", formatText, "output format: text or json")
	rootCmd.AddCommand(fitCmd)

	plotCmd := &cobra.Command{
		Use:     "plot <file>",
		Short:   "Render the performance chart for a pump data file",
		Args:    cobra.ExactArgs(1),
		RunE:    a.runPlotCmdF,
		Example: "pumpcurve plot pump.txt --out chart.html",
	}
	plotCmd.Flags().Int("degree", config.DefaultDegree, "polynomial degree of both fits")
	plotCmd.Flags().Int("samples", config.DefaultSamples, "number of points each fitted curve is drawn with")
	plotCmd.Flags().String("out", "chart.html", "html file the chart is written to")
	rootCmd.AddCommand(plotCmd)

	return rootCmd
}

// setup loads the config, applies the persistent flag overrides and installs the logger
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	lvl, err := cfg.Level()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl})))

	a.cfg = cfg
	return nil
}

// modelOptions builds the fit options from the config and any per command flag overrides
func (a *app) modelOptions(cmd *cobra.Command) (*pump.ModelOptions, error) {
	degree := a.cfg.Degree
	if cmd.Flags().Changed("degree") {
		d, err := cmd.Flags().GetInt("degree")
		if err != nil {
			return nil, err
		}
		degree = d
	}
	return (&pump.ModelOptions{
		Degree:     degree,
		FitOptions: a.cfg.PolynomialOptions(),
	}).Validate()
}

func (a *app) runFitCmdF(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != formatText && format != formatJSON {
		return fmt.Errorf("got %q, %w", format, ErrUnknownFormat)
	}

	opt, err := a.modelOptions(cmd)
	if err != nil {
		return err
	}
	ds, err := pump.ReadFile(args[0])
	if err != nil {
		return err
	}
	m, err := pump.NewModel(ds, opt)
	if err != nil {
		return err
	}
	report, err := m.Report()
	if err != nil {
		return err
	}

	slog.Debug("fit pump curves", "file", args[0], "degree", opt.Degree, "format", format)
	if format == formatJSON {
		return report.WriteJSON(cmd.OutOrStdout())
	}
	return report.TablePrint(cmd.OutOrStdout(), "", "  ")
}

func (a *app) runPlotCmdF(cmd *cobra.Command, args []string) (err error) {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	samples := a.cfg.Samples
	if cmd.Flags().Changed("samples") {
		if samples, err = cmd.Flags().GetInt("samples"); err != nil {
			return err
		}
	}
	if samples < 1 {
		return fmt.Errorf("got %d, %w", samples, config.ErrNonPositiveSamples)
	}
	opt, err := a.modelOptions(cmd)
	if err != nil {
		return err
	}

	f, err := createChart(out)
	if err != nil {
		return fmt.Errorf("unable to create chart file, %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("unable to close chart file, %w", cerr)
		}
		if err != nil {
			os.Remove(out)
		}
	}()

	view, err := pump.NewView(&pump.ViewOptions{
		Summary:     cmd.OutOrStdout(),
		Chart:       f,
		Title:       a.cfg.Chart.Title,
		Width:       a.cfg.Chart.Width,
		Height:      a.cfg.Chart.Height,
		SampleCount: samples,
	})
	if err != nil {
		return err
	}
	ctrl, err := pump.NewController(view, opt)
	if err != nil {
		return err
	}
	if err := ctrl.ImportFromFile(args[0]); err != nil {
		return err
	}

	slog.Info("wrote performance chart", "file", out, "samples", samples)
	return nil
}
