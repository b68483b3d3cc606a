package cli

import (
	"fmt"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/db"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var (
		slot  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show archived snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e := envFrom(cmd)

			if err := EnsureInitDone(e.dir); err != nil {
				return fail(cmd, err)
			}

			archive, err := db.OpenArchive(e.dir)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer archive.Close()

			snaps, err := db.ListSnapshots(archive, slot, limit)
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(snaps) == 0 {
				fmt.Fprintln(out, "no snapshots")
				return nil
			}
			for _, s := range snaps {
				ratio := 0.0
				if s.PlainSize > 0 {
					ratio = float64(s.BlobSize) / float64(s.PlainSize)
				}
				fmt.Fprintf(out, "%s  %-12s  %s  %6d -> %5d  %5.1f%%  v0x%02x\n",
					s.ID, s.Slot, s.CapturedAt.Local().Format("2006-01-02 15:04:05"),
					s.PlainSize, s.BlobSize, ratio*100, s.Version)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "", "Only show snapshots of this slot")
	cmd.Flags().IntVar(&limit, "limit", 20, "Max entries to show (0 = no limit)")
	return cmd
}
