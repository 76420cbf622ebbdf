package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
)

// newTextCmd creates the draft or goals command group
func newTextCmd(o *common.Options, name, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Example: fmt.Sprintf(`  stagelist %[1]s set "週末に引っ越しの準備をする"
  stagelist %[1]s set -f notes.md
  cat notes.md | stagelist %[1]s set -f -
  stagelist %[1]s show`, name),
	}
	cmd.AddCommand(newTextSetCmd(o, name))
	cmd.AddCommand(newTextShowCmd(o, name))
	return cmd
}

func newTextSetCmd(o *common.Options, name string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set [text...]",
		Short: "Replace the " + name,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := common.ReadText(cmd, o, args, file)
			if err != nil {
				return err
			}
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				uc := s.Container.GetUseCase()
				if name == "goals" {
					err = uc.SetGoals(ctx, s.ListID, text)
				} else {
					err = uc.SetDraft(ctx, s.ListID, text)
				}
				if err != nil {
					return "", nil, err
				}
				return fmt.Sprintf("%sを保存しました (%d文字)", label(name), len([]rune(text))), nil, nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the text from a file (- for stdin)")
	return cmd
}

func newTextShowCmd(o *common.Options, name string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the " + name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				st, err := s.Container.GetUseCase().Status(ctx, s.ListID)
				if err != nil {
					return "", nil, err
				}
				if name == "goals" {
					return "", st.Goals, nil
				}
				return "", st.Draft, nil
			})
		},
	}
}

func label(name string) string {
	if name == "goals" {
		return "ゴール"
	}
	return "下書き"
}
