package cli

import (
	"fmt"
	"os"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec"
	"github.com/spf13/cobra"
)

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <save> <blob>",
		Short: "Compress a raw save file into a save blob",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e := envFrom(cmd)

			src, err := readPlaintext(args[0])
			if err != nil {
				return fail(cmd, err)
			}
			save, err := openSave(e)
			if err != nil {
				return fail(cmd, err)
			}
			defer save.Close()

			if err := save.Compress(src); err != nil {
				return fail(cmd, fmt.Errorf("compress %s: %w", args[0], err))
			}
			if err := os.WriteFile(args[1], save.Bytes(), 0o644); err != nil {
				return fail(cmd, err)
			}
			e.logger.Debug("packed", "in", args[0], "out", args[1], "plain", src.Size, "blob", save.Size())

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d -> %d bytes\n", args[1], src.Size, save.Size())
			return nil
		},
	}
}

func newUnpackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpack <blob> <save>",
		Short: "Decompress a save blob into a raw save file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e := envFrom(cmd)

			blob, err := os.ReadFile(args[0])
			if err != nil {
				return fail(cmd, err)
			}
			save, err := openSave(e)
			if err != nil {
				return fail(cmd, err)
			}
			defer save.Close()

			if err := save.Load(blob); err != nil {
				return fail(cmd, decodeFailure(err))
			}
			dst := codec.NewFileInfo(args[1])
			if err := save.Decompress(dst); err != nil {
				return fail(cmd, decodeFailure(err))
			}
			if err := os.WriteFile(args[1], dst.Bytes(), 0o644); err != nil {
				return fail(cmd, err)
			}
			e.logger.Debug("unpacked", "in", args[0], "out", args[1], "blob", len(blob), "plain", dst.Size)

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d -> %d bytes\n", args[1], len(blob), dst.Size)
			return nil
		},
	}
}
