package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bdbaddog/scons-time/internal/config"
	"github.com/bdbaddog/scons-time/internal/telemetry"
)

var exit = os.Exit
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "scons-time",
	Short: "Time SCons builds and track performance over time",
	Long: `scons-time wraps repeated invocations of the SCons build tool to
extract and report performance statistics. A standard timing session runs
SCons three times (startup probe, full build, null build), scrapes the
--debug=memory,time output, and emits TRACE lines for the graphing
tooling. Benchmark and timing history can be stored and compared across
runs.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./scons-time.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose/debug logging")
	rootCmd.PersistentFlags().String("tool", "", "build tool executable (default \"scons\")")
	rootCmd.PersistentFlags().String("project", "", "project name for stored history")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("tool", rootCmd.PersistentFlags().Lookup("tool"))
	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))

	rootCmd.AddCommand(
		newRunCmd(),
		newCalibrateCmd(),
		newBenchCmd(),
		newReportCmd(),
		newServeCmd(),
		newConfigureCmd(),
		newVersionCmd(),
	)
}

func initConfig() {
	config.Load(cfgFile)
	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
}
