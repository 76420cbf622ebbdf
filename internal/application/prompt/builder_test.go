package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
)

func TestBuilder_Analyze(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	doc := list.New(time.Time{})
	doc.Draft = "  イベントを開きたい  "
	doc.Goals = "春に開催する"
	doc.Checklist = checklist.Tree{
		checklist.NewTask("1", "会場を探す", "", 0),
		checklist.NewTask("2", "候補を比べる", "", 1),
	}
	doc.Checklist[1].Done = true
	doc.UsedActions.Add("会場を探す")

	out, err := b.Analyze(doc)
	require.NoError(t, err)

	assert.Contains(t, out, "## ゴール\n春に開催する")
	assert.Contains(t, out, "## 下書き\nイベントを開きたい\n")
	assert.Contains(t, out, "（ステージ1）\n- 会場を探す\n  - 候補を比べる（完了）")
	assert.Contains(t, out, "## すでに出したアクション（繰り返さない）\n- 会場を探す")
}

func TestBuilder_AnalyzeEmpty(t *testing.T) {
	b := MustNewBuilder()

	out, err := b.Analyze(list.New(time.Time{}))
	require.NoError(t, err)
	assert.Contains(t, out, "## ゴール\n(なし)")
	assert.Contains(t, out, "（ステージ1）\n(なし)")
	assert.NotContains(t, out, "すでに出したアクション")
}

func TestBuilder_Decompose(t *testing.T) {
	b := MustNewBuilder()
	doc := list.New(time.Time{})
	doc.Goals = "春に開催する"
	item := checklist.NewTask("1", "会場を探す", "venue", 0)

	out, err := b.Decompose(doc, item)
	require.NoError(t, err)
	assert.Contains(t, out, "タスク: 会場を探す\nカテゴリ: venue")
	assert.Contains(t, out, "参考（ゴール）:\n春に開催する")
}
