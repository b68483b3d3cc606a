package cli

import (
	"fmt"
	"path/filepath"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/bench"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var algorithms []string

	cmd := &cobra.Command{
		Use:   "bench <save>...",
		Short: "Compare the save format against general-purpose compressors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e := envFrom(cmd)

			names := algorithms
			if !cmd.Flags().Changed("algorithms") && len(e.cfg.Bench.Algorithms) > 0 {
				names = e.cfg.Bench.Algorithms
			}
			algos := bench.DefaultAlgorithms
			if len(names) > 0 {
				algos = make([]bench.Algorithm, 0, len(names))
				for _, name := range names {
					a, err := bench.ParseAlgorithm(name)
					if err != nil {
						return fail(cmd, err)
					}
					algos = append(algos, a)
				}
			}

			inputs := make([]bench.Input, 0, len(args))
			for _, path := range args {
				src, err := readPlaintext(path)
				if err != nil {
					return fail(cmd, err)
				}
				inputs = append(inputs, bench.Input{Name: filepath.Base(path), Data: src.Bytes()})
			}

			save, err := openSave(e)
			if err != nil {
				return fail(cmd, err)
			}
			defer save.Close()

			runner, err := bench.NewRunner(save)
			if err != nil {
				return err
			}
			defer runner.Close()

			summaries, err := runner.Run(algos, inputs)
			if err != nil {
				return fail(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s %5s %9s %9s %7s %7s %7s %7s %7s\n",
				"algo", "files", "in", "out", "overall", "mean", "stddev", "median", "worst")
			for _, s := range summaries {
				fmt.Fprintf(out, "%-8s %5d %9d %9d %7.3f %7.3f %7.3f %7.3f %7.3f\n",
					s.Algorithm, s.Files, s.BytesIn, s.BytesOut, s.Overall(), s.Mean, s.StdDev, s.Median, s.Worst)
			}
			if len(summaries) > 0 && summaries[0].Files == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "all inputs were empty")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&algorithms, "algorithms", nil, "Algorithms to compare (save,zstd,lz4,snappy,brotli)")
	return cmd
}
