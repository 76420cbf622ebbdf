// Package handoff renders the baton-pass document that hands a list over to
// another assistant.
package handoff

import (
	"fmt"
	"strings"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
)

// Acknowledgment is the literal first line the receiving agent must reply with.
const Acknowledgment = "了解しました。バトンを受け取りました。"

// None is rendered for sections that have no content.
const None = "(なし)"

const (
	glyphGroup    = "◆"
	glyphTodo     = "[ ]"
	glyphDone     = "[x]"
	indentPerStep = "  "
)

var rules = []string{
	"すべて具体的な次のアクションに落とし込んでください。",
	"最初に、15分以内で終わる次のアクションを3つ提案してください。",
	"質問は最大2つまでとし、暫定の計画を提案した後にだけ行ってください。",
}

// Input is everything the composer reads.
type Input struct {
	Draft           string
	Analysis        string
	Goals           string
	Checklist       checklist.Tree
	Stage           int
	IncludeDraft    bool
	IncludeAnalysis bool
}

// Compose renders the hand-off document. It is a pure function of in.
func Compose(in Input) string {
	var b strings.Builder

	b.WriteString("# バトンパス\n\n")
	fmt.Fprintf(&b, "以下はステージ%dの作業状況です。返信の最初の行は必ず次の一文にしてください:\n", in.Stage)
	fmt.Fprintf(&b, "「%s」\n\n", Acknowledgment)

	b.WriteString("## ルール\n")
	for _, r := range rules {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	b.WriteString("\n## ゴール\n")
	b.WriteString(orNone(in.Goals))
	b.WriteString("\n")

	b.WriteString("\n## チェックリスト\n")
	if len(in.Checklist) == 0 {
		b.WriteString(None + "\n")
	}
	for _, it := range in.Checklist {
		b.WriteString(RenderItem(it))
		b.WriteString("\n")
	}

	if in.IncludeDraft {
		b.WriteString("\n## 下書き\n")
		b.WriteString(fenced(in.Draft))
	}
	if in.IncludeAnalysis {
		b.WriteString("\n## 分析\n")
		b.WriteString(fenced(in.Analysis))
	}
	return b.String()
}

// RenderItem renders one checklist line: indent, glyph, text and status marks.
func RenderItem(it checklist.Item) string {
	glyph := glyphTodo
	switch {
	case !it.IsTask():
		glyph = glyphGroup
	case it.Done:
		glyph = glyphDone
	}

	line := strings.Repeat(indentPerStep, it.Depth) + glyph + " " + it.Text
	switch it.Status {
	case checklist.StatusUnknown:
		line += "（不明）"
	case checklist.StatusLater:
		line += "（後で）"
	}
	if it.IsTask() && it.Done {
		line += "（完了）"
	}
	return line
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return None
	}
	return strings.TrimRight(s, "\n")
}

// fenced wraps s verbatim in a code fence long enough not to collide with
// any backtick run inside s.
func fenced(s string) string {
	if strings.TrimSpace(s) == "" {
		return None + "\n"
	}
	fence := "```"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	body := s
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return fence + "\n" + body + fence + "\n"
}
