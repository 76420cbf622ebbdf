package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToImperativeForm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already plain form", "見積もりを取る", "見積もりを取る"},
		{"bullet and period stripped", "- 見積もりを取る。", "見積もりを取る"},
		{"suru form kept", "予算を確認する", "予算を確認する"},
		{"polite suru", "資料を共有します", "資料を共有する"},
		{"past suru", "会場を予約しました", "会場を予約する"},
		{"request form", "日程を調整してください", "日程を調整する"},
		{"desire form", "英語を勉強したい", "英語を勉強する"},
		{"godan polite", "見積もりを取ります", "見積もりを取る"},
		{"godan polite ku", "メモを書きます", "メモを書く"},
		{"potential polite", "確認できます", "確認できる"},
		{"try polite", "試してみます", "試してみる"},
		{"try polite voiced", "本を読んでみます", "本を読んでみる"},
		{"progressive polite", "資料を作っています", "資料を作っている"},
		{"progressive polite voiced", "返事を待ち望んでいます", "返事を待ち望んでいる"},
		{"preparatory polite", "席を取っておきます", "席を取っておく"},
		{"progressive suru stays suru", "資料を作成しています", "資料を作成する"},
		{"godan polite mu", "本を読みます", "本を読む"},
		{"godan polite u", "切符を買います", "切符を買う"},
		{"need", "追加の予算が必要です", "追加の予算を用意する"},
		{"about", "補助金について", "補助金について調べる"},
		{"no-particle confirm", "契約内容の確認", "契約内容を確認する"},
		{"topic noun", "会場比較", "会場比較する"},
		{"fallback appends auxiliary", "見積もり", "見積もりする"},
		{"latin text untouched", "Call the venue.", "Call the venue"},
		{"empty stays empty", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToImperativeForm(tt.in))
		})
	}
}

func TestJapaneseCanonicalizer_Fallback(t *testing.T) {
	c := NewJapaneseCanonicalizer()
	c.Fallback = "を進める"

	assert.Equal(t, "企画を進める", c.Canonicalize("企画"))
	assert.Equal(t, "資料確認する", c.Canonicalize("資料確認"), "topic nouns still take the auxiliary")
}

func TestJapaneseCanonicalizer_CustomRules(t *testing.T) {
	c := &JapaneseCanonicalizer{
		Auxiliary: "する",
		Rules:     []Rule{{Suffix: "の件", Replacement: "を片付ける"}},
	}

	assert.Equal(t, "請求書を片付ける", c.Canonicalize("請求書の件"))
}

func TestPassthrough(t *testing.T) {
	assert.Equal(t, "資料を共有します", Passthrough.Canonicalize("・資料を共有します。"))
}
