package snapshot

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
)

// NewCommand creates the snapshot command group
func NewCommand(o *common.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Capture and restore checklist snapshots",
		Long: `A snapshot is taken automatically before a stage transition, a delete,
a decomposition and a revive. Restoring one brings back its checklist,
parked tasks and stage.`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				snaps, err := s.Container.GetUseCase().ListSnapshots(ctx, s.ListID)
				return "", snaps, err
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "take",
		Short: "Capture the current state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				snap, err := s.Container.GetUseCase().CaptureSnapshot(ctx, s.ListID)
				if err != nil {
					return "", nil, err
				}
				return "スナップショットを保存しました", snap, nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a snapshot and remove it from the log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				snap, err := s.Container.GetUseCase().RestoreSnapshot(ctx, s.ListID, args[0])
				if err != nil {
					return "", nil, err
				}
				return fmt.Sprintf("ステージ%dに戻しました", snap.Stage), snap, nil
			})
		},
	})
	return cmd
}
