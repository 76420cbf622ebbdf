package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/stagelist/internal/interface/cli/common"
)

// Check is one doctor result
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// Report is the doctor output
type Report struct {
	Home   string  `json:"home"`
	Config string  `json:"config"`
	Checks []Check `json:"checks"`
}

// Failed counts failed checks
func (r *Report) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.OK {
			n++
		}
	}
	return n
}

// NewCommand creates the doctor command
func NewCommand(o *common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check settings, storage and the generator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			out := cmd.OutOrStdout()
			report := Run(ctx, o, out)

			if o.Format == "json" {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(report); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
			} else {
				writeText(out, report)
			}
			if n := report.Failed(); n > 0 {
				return common.Reported(fmt.Errorf("%d check(s) failed", n))
			}
			return nil
		},
	}
}

// Run performs the checks in order. It stops early when settings or the
// container cannot be loaded.
func Run(ctx context.Context, o *common.Options, out io.Writer) *Report {
	report := &Report{Home: o.Home}

	// 1. Settings
	settings, err := o.LoadSettings()
	if err != nil {
		report.Checks = append(report.Checks, Check{Name: "settings", Detail: err.Error()})
		return report
	}
	report.Config = settings.Source
	if settings.Path != "" {
		report.Config = settings.Path
	}
	report.Checks = append(report.Checks, Check{Name: "settings", OK: true, Detail: "source: " + settings.Source})

	// 2. Container
	s, err := o.Open(ctx, out)
	if err != nil {
		report.Checks = append(report.Checks, Check{Name: "container", Detail: err.Error()})
		return report
	}
	defer s.Close()

	// 3. Store
	docs, err := s.Container.GetStore().List(ctx)
	if err != nil {
		report.Checks = append(report.Checks, Check{Name: "store", Detail: err.Error()})
	} else {
		report.Checks = append(report.Checks, Check{
			Name:   "store",
			OK:     true,
			Detail: fmt.Sprintf("%s, %d list(s)", settings.Store.Backend, len(docs)),
		})
	}

	// 4. Generator
	gw := s.Container.GetGateway()
	capability := gw.GetCapability()
	if err := gw.HealthCheck(ctx); err != nil {
		report.Checks = append(report.Checks, Check{Name: "generator", Detail: err.Error()})
	} else {
		detail := capability.Backend
		if capability.Model != "" {
			detail += " (" + capability.Model + ")"
		}
		report.Checks = append(report.Checks, Check{Name: "generator", OK: true, Detail: detail})
	}
	return report
}

func writeText(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Home:   %s\n", r.Home)
	fmt.Fprintf(w, "Config: %s\n\n", r.Config)
	for _, c := range r.Checks {
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %-10s %s\n", mark, c.Name, c.Detail)
	}
	if n := r.Failed(); n > 0 {
		fmt.Fprintf(w, "\n%d件のチェックに失敗しました\n", n)
		return
	}
	fmt.Fprintln(w, "\nすべて正常です")
}
