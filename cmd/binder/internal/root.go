package internal

import (
	"os"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var rootVerbose bool

var rootCmd = &cobra.Command{
	Use:   "binder",
	Short: "binder bootstraps the binder toolchain and generates pybind11 bindings",
	Long: `binder automates two coupled tasks: installing a self-hosted clang toolchain
with the binder generator built into it, and driving that generator to
produce, compile and verify a loadable Python extension module.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootVerbose {
			log.SetOutputLevel(log.Ldebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable verbose output")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
