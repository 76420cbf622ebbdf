package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/stagelist/internal/application/dto"
	"github.com/YoshitsuguKoike/stagelist/internal/infra/persistence/file"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
)

func newHandoffCmd(o *common.Options) *cobra.Command {
	var (
		req     dto.HandoffRequest
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "handoff",
		Short: "Render the baton-pass document for another assistant",
		Example: `  stagelist handoff
  stagelist handoff --draft --analysis -o handoff.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, o, func(ctx context.Context, s *common.Session) (string, interface{}, error) {
				doc, err := s.Container.GetUseCase().ComposeHandoff(ctx, s.ListID, req)
				if err != nil {
					return "", nil, err
				}
				if outFile == "" {
					return "", doc, nil
				}
				if err := file.WriteFileAtomic(o.FS(), outFile, []byte(doc), 0o644); err != nil {
					return "", nil, err
				}
				return "バトンパスを書き出しました: " + outFile, nil, nil
			})
		},
	}

	cmd.Flags().BoolVar(&req.IncludeDraft, "draft", false, "Include the draft text")
	cmd.Flags().BoolVar(&req.IncludeAnalysis, "analysis", false, "Include the latest analysis")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
