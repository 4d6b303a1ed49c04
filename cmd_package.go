package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tools "github.com/w-henderson/humphrey-tools/internal"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Package the source tree into TeX inclusion markup",
	Long: `package walks the configured source directories, copies every file
with a recognised extension into the output directory under a flattened,
hyphenated filename, and writes TeX inclusion directives for each copied
file. Files whose path contains "tests" are routed to a separate
tests.tex stream unless --separate-tests=false.

The output directory is cleared and recreated on every run.`,
	Args: cobra.NoArgs,
	RunE: runPackage,
}

func init() {
	packageCmd.Flags().String("output-dir", "", "directory to package sources into")
	packageCmd.Flags().Bool("separate-tests", true, "route test sources to a separate tests.tex")
	packageCmd.Flags().String("language", "", "language passed to \\inputminted")

	viper.BindPFlag("package.output_dir", packageCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("package.separate_tests", packageCmd.Flags().Lookup("separate-tests"))
	viper.BindPFlag("package.language", packageCmd.Flags().Lookup("language"))

	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	cfg, err := tools.LoadPackageConfig()
	if err != nil {
		return err
	}

	return tools.NewPackager(cfg, afero.NewOsFs(), log).Run()
}
