package cli

import (
	"fmt"
	"os"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <blob>",
		Short: "Print the version tag and frame header of a save blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			blob, err := os.ReadFile(args[0])
			if err != nil {
				return fail(cmd, err)
			}
			h, err := codec.ParseBlobHeader(blob)
			if err != nil {
				return fail(cmd, decodeFailure(fmt.Errorf("%w: %w", codec.ErrCorrupt, err)))
			}

			out := cmd.OutOrStdout()
			supported := "supported"
			if h.Version != codec.SaveVersion {
				supported = "unsupported"
			}
			fmt.Fprintf(out, "version:        0x%02x (%s)\n", h.Version, supported)
			fmt.Fprintf(out, "blob size:      %d\n", len(blob))
			fmt.Fprintf(out, "header size:    %d\n", h.HeaderSize)
			fmt.Fprintf(out, "window size:    %d\n", h.WindowSize)
			fmt.Fprintf(out, "single segment: %t\n", h.SingleSegment)
			if h.HasFCS {
				fmt.Fprintf(out, "content size:   %d\n", h.ContentSize)
			} else {
				fmt.Fprintln(out, "content size:   absent")
			}
			fmt.Fprintf(out, "dictionary id:  %d\n", h.DictionaryID)
			fmt.Fprintf(out, "checksum:       %t\n", h.HasChecksum)
			return nil
		},
	}
}
