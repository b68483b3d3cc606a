package cli

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec"
	"github.com/spf13/cobra"
)

func newDictCmd() *cobra.Command {
	var (
		outPath string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Build the compression dictionary from the game files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e := envFrom(cmd)

			if err := EnsureAssets(e.assets); err != nil {
				return fail(cmd, err)
			}
			dict, err := codec.BuildDictionary(os.DirFS(e.assets), codec.Builtin)
			if err != nil {
				return fail(cmd, fmt.Errorf("build dictionary: %w", err))
			}

			out := cmd.OutOrStdout()
			fp := dict.Fingerprint()
			fmt.Fprintf(out, "dictionary: %d bytes\n", dict.Len())
			fmt.Fprintf(out, "blake3:     %s\n", hex.EncodeToString(fp[:]))

			if verbose {
				for i, c := range dict.Contributions() {
					res := codec.Builtin.Resources[i]
					fmt.Fprintf(out, "  %-12s %-11s %6d\n", c.Name, res.Group, c.Bytes)
				}
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, dict.Bytes(), 0o644); err != nil {
					return fail(cmd, err)
				}
				e.logger.Info("dictionary written", "path", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the raw dictionary to this file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List each resource's contribution")
	return cmd
}

// fingerprintHex returns the hex blake3 fingerprint of save's dictionary.
func fingerprintHex(save *codec.Save) string {
	fp := save.Dictionary().Fingerprint()
	return hex.EncodeToString(fp[:])
}
