package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tools "github.com/w-henderson/humphrey-tools/internal"
)

var version = "dev"

var log = logrus.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "humphrey-tools",
	Short: "Benchmarking and report-packaging tools for the Humphrey web server",
	Long: `humphrey-tools drives ApacheBench against Humphrey and its competitors
and renders the results as pgfplots markup, and packages the Humphrey
source tree into TeX inclusion directives for the project write-up.

Examples:
  humphrey-tools bench > results.tex
  humphrey-tools bench --requests 10000 --concurrency 4
  humphrey-tools package --output-dir pkg
  HUMPHREY_BENCH_REQUESTS=10000 humphrey-tools bench`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				log.Fatalf("failed to read config file %s: %v", cfgFile, err)
			}
			log.Debugf("using config file %s", viper.ConfigFileUsed())
		}
	},
}

func init() {
	rootCmd.Version = version

	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	// Configure Viper for environment variables
	viper.SetEnvPrefix("humphrey")
	viper.SetEnvKeyReplacer(tools.EnvKeyReplacer())
	viper.AutomaticEnv()

	tools.SetDefaults()
}
