package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
)

func newAnalyzeCmd(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Extract candidate tasks from the draft and goals",
		Long: `Send the draft and goals to the generator and store the reply as the new analysis.
The candidates it contains feed the next stages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "🔍 分析中...")
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				res, err := s.Container.GetUseCase().Analyze(ctx, s.ListID)
				if err != nil {
					return "", nil, err
				}
				return "分析が完了しました", res, nil
			})
		},
	}
}

func newAdvanceCmd(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Move to the next stage",
		Long: `Start the next stage. Unfinished tasks are parked, finished tasks are archived
and the next batch of unused candidates becomes the checklist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				res, err := s.Container.GetUseCase().AdvanceStage(ctx, s.ListID)
				if err != nil {
					return "", nil, err
				}
				return "次のステージを開始しました", res, nil
			})
		},
	}
}

func newStatusCmd(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the checklist, parked tasks and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				st, err := s.Container.GetUseCase().Status(ctx, s.ListID)
				return "", st, err
			})
		},
	}
}

func newMetricsCmd(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show stage and lifetime progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				m, err := s.Container.GetUseCase().Metrics(ctx, s.ListID)
				return "", m, err
			})
		},
	}
}

func newListsCmd(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List stored checklists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				docs, err := s.Container.GetUseCase().Lists(ctx)
				if err != nil {
					return "", nil, err
				}
				return fmt.Sprintf("%d件のリスト", len(docs)), docs, nil
			})
		},
	}
}
