package cli

import (
	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/doctor"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/item"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/parked"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/snapshot"
	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/version"
)

func NewRoot() *cobra.Command {
	return NewRootWithOptions(common.NewOptions())
}

// NewRootWithOptions builds the command tree around o
func NewRootWithOptions(o *common.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stagelist",
		Short: "Staged checklist builder",
		Long: `stagelist turns a free-form draft and goals into a checklist that grows in stages.

Analyze the draft to collect candidate tasks, work through the current stage,
then advance to pull in the next batch. Tasks you mark unknown or later are
parked and can be revived at any time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	o.AddFlags(cmd)

	cmd.AddCommand(newTextCmd(o, "draft", "Set or show the draft text"))
	cmd.AddCommand(newTextCmd(o, "goals", "Set or show the goals"))
	cmd.AddCommand(newAnalyzeCmd(o))
	cmd.AddCommand(newAdvanceCmd(o))
	cmd.AddCommand(newStatusCmd(o))
	cmd.AddCommand(newMetricsCmd(o))
	cmd.AddCommand(newHandoffCmd(o))
	cmd.AddCommand(newListsCmd(o))
	cmd.AddCommand(newInitCmd(o))
	cmd.AddCommand(item.NewCommand(o))
	cmd.AddCommand(parked.NewCommand(o))
	cmd.AddCommand(snapshot.NewCommand(o))
	cmd.AddCommand(doctor.NewCommand(o))
	cmd.AddCommand(version.NewCommand())
	return cmd
}
