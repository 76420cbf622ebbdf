package handoff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
)

func sampleTree() checklist.Tree {
	group := checklist.NewTask("1", "会場を決める", "", 0)
	group.Type = checklist.TypeGroup
	group.Done = true

	done := checklist.NewTask("2", "候補を3つ選ぶ", "", 1)
	done.Done = true

	unknown := checklist.NewTask("3", "予算を確認する", "", 1)
	unknown.Status = checklist.StatusUnknown

	later := checklist.NewTask("4", "招待状を送る", "", 0)
	later.Status = checklist.StatusLater

	return checklist.Tree{group, done, unknown, later}
}

func TestCompose_Checklist(t *testing.T) {
	out := Compose(Input{Goals: "春に開催する", Checklist: sampleTree(), Stage: 3})

	assert.True(t, strings.Contains(out, "「"+Acknowledgment+"」"))
	assert.Contains(t, out, "ステージ3")
	assert.Contains(t, out, "## ゴール\n春に開催する\n")
	assert.Contains(t, out, strings.Join([]string{
		"## チェックリスト",
		"◆ 会場を決める",
		"  [x] 候補を3つ選ぶ（完了）",
		"  [ ] 予算を確認する（不明）",
		"[ ] 招待状を送る（後で）",
	}, "\n"))
	assert.NotContains(t, out, "## 下書き")
	assert.NotContains(t, out, "## 分析")
}

func TestCompose_Rules(t *testing.T) {
	out := Compose(Input{})
	for _, r := range rules {
		assert.Contains(t, out, "- "+r)
	}
}

func TestCompose_EmptySectionsRenderPlaceholder(t *testing.T) {
	out := Compose(Input{IncludeDraft: true, IncludeAnalysis: true})

	assert.Contains(t, out, "## ゴール\n(なし)\n")
	assert.Contains(t, out, "## チェックリスト\n(なし)\n")
	assert.Contains(t, out, "## 下書き\n(なし)\n")
	assert.Contains(t, out, "## 分析\n(なし)\n")
}

func TestCompose_FencedVerbatim(t *testing.T) {
	draft := "line one\n  indented ```code```\n"
	out := Compose(Input{Draft: draft, Analysis: "[a]\n- b", IncludeDraft: true, IncludeAnalysis: true})

	assert.Contains(t, out, "## 下書き\n````\n"+draft+"````\n")
	assert.Contains(t, out, "## 分析\n```\n[a]\n- b\n```\n")
}

func TestCompose_IsPure(t *testing.T) {
	in := Input{Goals: "g", Checklist: sampleTree(), Stage: 2, Draft: "d", IncludeDraft: true}
	assert.Equal(t, Compose(in), Compose(in))
}
