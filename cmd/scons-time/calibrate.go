package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCalibrateCmd() *cobra.Command {
	opts := runOptions{}
	var runs int
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Run calibration builds to size configuration variables",
		Long: `Runs full builds and reports the calibration variables and the elapsed
time of each as VARIABLE: and ELAPSED: lines, without collecting
statistics. Adjust the variables (via the scenario file or environment)
and repeat until the elapsed time lands in the window you want a timing
configuration to take.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, cleanup, err := loadHarnessConfig(opts)
			if err != nil {
				return err
			}
			defer cleanup()
			cfg.Calibrate = true

			for i := 0; i < runs; i++ {
				if runs > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "run %d:\n", i+1)
				}
				h := newHarnessFunc(cfg, cmd.OutOrStdout())
				if err := h.Main(cmd.Context()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "HCL scenario file")
	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "scenario name within the file")
	cmd.Flags().StringVar(&opts.dir, "dir", ".", "directory to run the build tool in")
	cmd.Flags().StringArrayVar(&opts.env, "env", nil, "extra NAME=value environment for the tool")
	cmd.Flags().IntVar(&runs, "runs", 1, "number of calibration builds")

	return cmd
}
