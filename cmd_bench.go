package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tools "github.com/w-henderson/humphrey-tools/internal"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark HTTP servers with ApacheBench and print pgfplots markup",
	Long: `bench runs ApacheBench against every configured server endpoint at
concurrency levels 1 up to --concurrency, collects the requests-per-second
and time-per-request metrics from each run, and prints two pgfplots chart
blocks to stdout, ready for inclusion in the project write-up.

The servers are expected to already be running on their configured ports;
bench does not start or supervise them.`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().Int("requests", 0, "total requests per trial")
	benchCmd.Flags().Int("concurrency", 0, "highest concurrency level to benchmark")
	benchCmd.Flags().String("path", "", "request path on each endpoint")
	benchCmd.Flags().Bool("keep-alive", true, "enable HTTP keep-alive")
	benchCmd.Flags().String("scratch-file", "", "scratch file for ApacheBench output")

	// Bind flags to Viper keys (note: dashes in flags become underscores in viper)
	viper.BindPFlag("bench.requests", benchCmd.Flags().Lookup("requests"))
	viper.BindPFlag("bench.max_concurrency", benchCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("bench.path", benchCmd.Flags().Lookup("path"))
	viper.BindPFlag("bench.keep_alive", benchCmd.Flags().Lookup("keep-alive"))
	viper.BindPFlag("bench.scratch_file", benchCmd.Flags().Lookup("scratch-file"))

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := tools.LoadBenchConfig()
	if err != nil {
		return err
	}

	driver := tools.NewDriver(cfg, log)
	rps, tpr, err := driver.Run(cmd.Context())
	if err != nil {
		return err
	}

	rpsTex, err := tools.RenderChart(rpsChart(cfg), rps)
	if err != nil {
		return err
	}
	tprTex, err := tools.RenderChart(tprChart(cfg), tpr)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", rpsTex, tprTex)
	return nil
}

// rpsChart is the requests-per-second chart: x axis tracks the configured
// concurrency range, y axis is thousands of requests per second.
func rpsChart(cfg tools.BenchConfig) tools.ChartConfig {
	return tools.ChartConfig{
		X: tools.Axis{
			Label: "Threads",
			Min:   0,
			Max:   float64(cfg.MaxConcurrency),
			Ticks: concurrencyTicks(cfg.MaxConcurrency),
		},
		Y: tools.Axis{
			Label: "Requests Per Second (Thousands)",
			Min:   0,
			Max:   100,
			Ticks: []string{"0", "20", "40", "60", "80", "100"},
		},
		Palette: cfg.Palette,
	}
}

// tprChart is the time-per-request chart, in milliseconds.
func tprChart(cfg tools.BenchConfig) tools.ChartConfig {
	return tools.ChartConfig{
		X: tools.Axis{
			Label: "Threads",
			Min:   0,
			Max:   float64(cfg.MaxConcurrency + 2),
			Ticks: concurrencyTicks(cfg.MaxConcurrency),
		},
		Y: tools.Axis{
			Label: "Time Per Request (ms)",
			Min:   0,
			Max:   0.5,
			Ticks: []string{"0", "0.1", "0.2", "0.3", "0.4", "0.5"},
		},
		Palette: cfg.Palette,
	}
}

func concurrencyTicks(max int) []string {
	ticks := make([]string, 0, max+1)
	for i := 0; i <= max; i++ {
		ticks = append(ticks, strconv.Itoa(i))
	}
	return ticks
}
