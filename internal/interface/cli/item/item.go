package item

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
)

// NewCommand creates the item command group
func NewCommand(o *common.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Edit checklist items",
		Long: `Edit the items of the current checklist.

Items are referenced by position (#3), by id, or by a unique id prefix.
Positions are the numbers shown by "stagelist status".`,
		Example: `  stagelist item add "見積もりを取る" -c 調査
  stagelist item toggle '#2'
  stagelist item later '#4'
  stagelist item decompose '#1'`,
	}

	cmd.AddCommand(newAddCmd(o))
	cmd.AddCommand(newEditCmd(o))
	cmd.AddCommand(newToggleCmd(o))
	cmd.AddCommand(newDeleteCmd(o))
	cmd.AddCommand(newStatusCmd(o, "unknown", "Toggle the unknown mark"))
	cmd.AddCommand(newStatusCmd(o, "later", "Toggle the later mark"))
	cmd.AddCommand(newDecomposeCmd(o))
	return cmd
}

func newAddCmd(o *common.Options) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task at the top of the checklist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				it, err := s.Container.GetUseCase().AddItem(ctx, s.ListID, text, category)
				if err != nil {
					return "", nil, err
				}
				return "追加しました", it, nil
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category label")
	return cmd
}

func newEditCmd(o *common.Options) *cobra.Command {
	var text, category string

	cmd := &cobra.Command{
		Use:   "edit <ref>",
		Short: "Change an item's text or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch checklist.Patch
			if cmd.Flags().Changed("text") {
				patch.Text = &text
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if patch.Text == nil && patch.Category == nil {
				return fmt.Errorf("nothing to change: use --text or --category")
			}
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				it, err := s.Container.GetUseCase().UpdateItem(ctx, s.ListID, args[0], patch)
				if err != nil {
					return "", nil, err
				}
				return "更新しました", it, nil
			})
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "New text")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	return cmd
}

func newToggleCmd(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <ref>",
		Aliases: []string{"done"},
		Short:   "Flip a task between done and not done",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				it, err := s.Container.GetUseCase().ToggleItem(ctx, s.ListID, args[0])
				if err != nil {
					return "", nil, err
				}
				if it.Done {
					return "完了にしました", it, nil
				}
				return "未完了に戻しました", it, nil
			})
		},
	}
}

func newDeleteCmd(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <ref>",
		Aliases: []string{"rm"},
		Short:   "Delete an item and its sub-tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				removed, err := s.Container.GetUseCase().DeleteItem(ctx, s.ListID, args[0])
				if err != nil {
					return "", nil, err
				}
				return fmt.Sprintf("%d件削除しました", len(removed)), removed, nil
			})
		},
	}
}

func newStatusCmd(o *common.Options, mark, short string) *cobra.Command {
	return &cobra.Command{
		Use:   mark + " <ref>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				uc := s.Container.GetUseCase()
				var (
					it  *checklist.Item
					err error
				)
				if mark == "later" {
					it, err = uc.SetLater(ctx, s.ListID, args[0])
				} else {
					it, err = uc.SetUnknown(ctx, s.ListID, args[0])
				}
				if err != nil {
					return "", nil, err
				}
				return "更新しました", it, nil
			})
		},
	}
}

func newDecomposeCmd(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "decompose <ref>",
		Short: "Split an item into sub-tasks using the generator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "🧩 分解中...")
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				res, err := s.Container.GetUseCase().DecomposeItem(ctx, s.ListID, args[0])
				if err != nil {
					return "", nil, err
				}
				return fmt.Sprintf("%d件のサブタスクに分解しました", len(res.Children)), res, nil
			})
		},
	}
}
