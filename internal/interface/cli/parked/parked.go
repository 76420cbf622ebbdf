package parked

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
)

// NewCommand creates the parked command group
func NewCommand(o *common.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parked",
		Short: "Manage tasks parked as unknown or later",
		Long: `Tasks still marked unknown or later when a stage ends are parked here.
Entries are referenced by position (#1) or by key.`,
	}
	cmd.AddCommand(newListCmd(o))
	cmd.AddCommand(newReviveCmd(o))
	cmd.AddCommand(newClearCmd(o))
	return cmd
}

func newListCmd(o *common.Options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List parked tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				entries, err := s.Container.GetUseCase().ListParked(ctx, s.ListID, all)
				return "", entries, err
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include resolved entries")
	return cmd
}

func newReviveCmd(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "revive <ref>",
		Short: "Put a parked task back on the checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				res, err := s.Container.GetUseCase().ReviveParked(ctx, s.ListID, args[0])
				if err != nil {
					return "", nil, err
				}
				if res.Created {
					return "チェックリストに戻しました", res, nil
				}
				return "既存の項目を再開しました", res, nil
			})
		},
	}
}

func newClearCmd(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <ref>",
		Short: "Drop a parked task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				it, err := s.Container.GetUseCase().ClearParked(ctx, s.ListID, args[0])
				if err != nil {
					return "", nil, err
				}
				return fmt.Sprintf("保留を解除しました: %s", it.Text), it, nil
			})
		},
	}
}
