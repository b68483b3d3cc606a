package cli

import (
	"fmt"
	"os"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/db"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the save archive in the save directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e := envFrom(cmd)

			info, err := os.Stat(e.dir)
			if err != nil || !info.IsDir() {
				return fail(cmd, fmt.Errorf("save directory %s not found", e.dir))
			}

			// Re-run = reset.
			rosaveDir := RosaveDir(e.dir)
			if _, err := os.Stat(rosaveDir); err == nil {
				e.logger.Info("resetting archive", "dir", rosaveDir)
				if err := os.RemoveAll(rosaveDir); err != nil {
					return fail(cmd, fmt.Errorf("remove .rosave/: %w", err))
				}
			}

			if err := os.MkdirAll(rosaveDir, 0o755); err != nil {
				return fmt.Errorf("create .rosave/: %w", err)
			}

			archive, err := db.OpenArchive(e.dir)
			if err != nil {
				return fmt.Errorf("create archive DB: %w", err)
			}
			defer archive.Close()
			if err := db.InitSchema(archive); err != nil {
				return fmt.Errorf("init archive schema: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "rosave archive initialized.")
			return nil
		},
	}
}
