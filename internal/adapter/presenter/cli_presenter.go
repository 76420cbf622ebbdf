package presenter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/YoshitsuguKoike/stagelist/internal/application/dto"
	"github.com/YoshitsuguKoike/stagelist/internal/application/port/output"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/parking"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/handoff"
)

// CLIPresenter implements output.Presenter for terminal output
type CLIPresenter struct {
	output io.Writer
}

// NewCLIPresenter creates a new CLI presenter
func NewCLIPresenter(output io.Writer) output.Presenter {
	return &CLIPresenter{output: output}
}

// PresentSuccess prints the message, then the payload when it is a known type
func (p *CLIPresenter) PresentSuccess(message string, data interface{}) error {
	if message != "" {
		fmt.Fprintf(p.output, "✓ %s\n", message)
	}

	switch v := data.(type) {
	case nil:
	case string:
		fmt.Fprint(p.output, v)
		if !strings.HasSuffix(v, "\n") {
			fmt.Fprintln(p.output)
		}
	case *checklist.Item:
		p.item(0, *v)
	case []checklist.Item:
		for _, it := range v {
			p.item(0, it)
		}
	case *dto.StatusDTO:
		p.status(v)
	case *dto.MetricsDTO:
		p.metrics(v)
	case *dto.AnalyzeResult:
		fmt.Fprintf(p.output, "  候補: %d件（未使用 %d件） [%s, %s]\n", v.Candidates, v.Remaining, v.Backend, v.Duration.Round(time.Millisecond))
	case *dto.DecomposeResult:
		p.item(0, v.Parent)
		for _, c := range v.Children {
			p.item(0, c)
		}
	case *dto.AdvanceResult:
		p.advance(v)
	case *dto.ReviveResult:
		p.item(0, v.Item)
	case *parking.Item:
		p.parked(dto.ParkedDTO{Item: *v})
	case []dto.ParkedDTO:
		if len(v) == 0 {
			fmt.Fprintln(p.output, "  "+handoff.None)
		}
		for _, e := range v {
			p.parked(e)
		}
	case *dto.SnapshotDTO:
		p.snapshot(*v)
	case []dto.SnapshotDTO:
		if len(v) == 0 {
			fmt.Fprintln(p.output, "  "+handoff.None)
		}
		for _, s := range v {
			p.snapshot(s)
		}
	case []output.DocumentInfo:
		for _, d := range v {
			fmt.Fprintf(p.output, "  %-20s %8d bytes  %s  %s\n", d.ListID, d.Size, d.UpdatedAt.Format("2006-01-02 15:04"), d.Location)
		}
	default:
		fmt.Fprintf(p.output, "%+v\n", data)
	}
	return nil
}

// PresentError prints the failure message and returns err
func (p *CLIPresenter) PresentError(err error) error {
	if kind := failure.KindOf(err); kind != "" {
		fmt.Fprintf(p.output, "✗ %s\n", failure.Message(err))
		if hint := hints[kind]; hint != "" {
			fmt.Fprintf(p.output, "  %s\n", hint)
		}
		return err
	}
	fmt.Fprintf(p.output, "✗ Error: %v\n", err)
	return err
}

var hints = map[failure.Kind]string{
	failure.KindInputEmpty:  "下書きかゴールを入力してください（stagelist draft set / goals set）",
	failure.KindUpstream:    "生成サービスに接続できません。設定とネットワークを確認してください（stagelist doctor）",
	failure.KindEmptyResult: "もう一度実行してください",
	failure.KindUnparsable:  "返答から項目を読み取れませんでした。もう一度実行してください",
	failure.KindBusy:        "分解が終わるまでお待ちください",
}

func (p *CLIPresenter) item(index int, it checklist.Item) {
	prefix := "    "
	if index > 0 {
		prefix = fmt.Sprintf("%3d ", index)
	}
	fmt.Fprintf(p.output, "%s%s  (%s)\n", prefix, handoff.RenderItem(it), it.Category)
}

func (p *CLIPresenter) status(s *dto.StatusDTO) {
	fmt.Fprintf(p.output, "リスト: %s  ステージ %d\n", s.ListID, s.Metrics.Stage)
	p.metrics(&s.Metrics)

	fmt.Fprintln(p.output, "\nゴール:")
	fmt.Fprintln(p.output, indent(orNone(s.Goals)))

	fmt.Fprintln(p.output, "\nチェックリスト:")
	if len(s.Items) == 0 {
		fmt.Fprintln(p.output, "  "+handoff.None)
	}
	for _, it := range s.Items {
		p.item(it.Index, it.Item)
		if it.Busy {
			fmt.Fprintln(p.output, "        ⏳ 分解中...")
		}
	}

	fmt.Fprintln(p.output, "\n保留:")
	if len(s.Parked) == 0 {
		fmt.Fprintln(p.output, "  "+handoff.None)
	}
	for _, e := range s.Parked {
		p.parked(e)
	}
}

func (p *CLIPresenter) metrics(m *dto.MetricsDTO) {
	advance := "まだ"
	if m.CanAdvance {
		advance = "可能"
	}
	fmt.Fprintf(p.output, "  進捗: %d/%d (%d%%)  累計: %d%%  未使用候補: %d  次ステージ: %s\n",
		m.Done, m.Total, m.StageProgress, m.LifetimeProgress, m.RemainingCandidates, advance)
	fmt.Fprintf(p.output, "  保留中: %d  スナップショット: %d\n", m.ActiveParked, m.Snapshots)
}

func (p *CLIPresenter) advance(r *dto.AdvanceResult) {
	fmt.Fprintf(p.output, "  ステージ %d へ進みました（残り候補 %d件）\n", r.Stage, r.Remaining)
	for i, it := range r.Issued {
		p.item(i+1, it)
	}
	if len(r.CarriedOver) > 0 {
		fmt.Fprintf(p.output, "  保留へ移動: %d件\n", len(r.CarriedOver))
		for _, e := range r.CarriedOver {
			p.parked(dto.ParkedDTO{Item: e})
		}
	}
}

func (p *CLIPresenter) parked(e dto.ParkedDTO) {
	label := "不明"
	if e.Status == parking.StatusLater {
		label = "後で"
	}
	prefix := "    "
	if e.Index > 0 {
		prefix = fmt.Sprintf("%3d ", e.Index)
	}
	line := fmt.Sprintf("%s[%s] %s  (%s) ステージ%d", prefix, label, e.Text, e.Category, e.Stage)
	if e.Resolved() {
		line += fmt.Sprintf("  → %s", e.Resolution)
	}
	fmt.Fprintln(p.output, line)
}

func (p *CLIPresenter) snapshot(s dto.SnapshotDTO) {
	fmt.Fprintf(p.output, "  %s  ステージ%d  %s  項目%d 保留%d\n",
		s.ID, s.Stage, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Items, s.Parked)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return handoff.None
	}
	return strings.TrimRight(s, "\n")
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
