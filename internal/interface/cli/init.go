package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/stagelist/internal/infra/config"
	"github.com/YoshitsuguKoike/stagelist/internal/infra/persistence/file"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
)

func newInitCmd(o *common.Options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the home directory and a default config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := o.FS()
			path := filepath.Join(o.Home, config.FileName)

			// 1. Refuse to overwrite unless --force
			if _, exists, err := file.ReadFileIfExists(fs, path); err != nil {
				return err
			} else if exists && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			// 2. Write the template
			if err := fs.MkdirAll(o.Home, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", o.Home, err)
			}
			if err := file.WriteFileAtomic(fs, path, []byte(config.DefaultYAML), 0o644); err != nil {
				return err
			}

			// 3. Make sure the result loads
			if _, err := o.LoadSettings(); err != nil {
				return fmt.Errorf("written config is invalid: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ 初期化しました: %s\n", path)
			fmt.Fprintln(out, "  次のステップ: stagelist draft set \"...\" → stagelist analyze → stagelist advance")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.yaml")
	return cmd
}
