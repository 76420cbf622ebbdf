package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "見積もりを取る", "見積もりを取る"},
		{"full-width space collapsed", "見積もり　　を取る", "見積もり を取る"},
		{"hyphen bullet", "-   call the venue ", "call the venue"},
		{"nakaguro bullet", "・予算を決める", "予算を決める"},
		{"numbered", "1. 候補を洗い出す", "候補を洗い出す"},
		{"full-width numbered", "１．候補を洗い出す", "候補を洗い出す"},
		{"parenthesized", "(2) 会場を探す", "会場を探す"},
		{"circled", "③ 日程を決める", "日程を決める"},
		{"checkbox under bullet", "- [ ] write draft", "write draft"},
		{"checked box", "[x] done item", "done item"},
		{"decimal is not numbering", "3.5時間で終える", "3.5時間で終える"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestHasListMarker(t *testing.T) {
	assert.True(t, HasListMarker("- item"))
	assert.True(t, HasListMarker("  * item"))
	assert.True(t, HasListMarker("・項目"))
	assert.True(t, HasListMarker("2) item"))
	assert.False(t, HasListMarker("item"))
	assert.False(t, HasListMarker("-"))
	assert.False(t, HasListMarker("[budget]"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("Call the Venue."), Key("- call   the venue"))
	assert.Equal(t, Key("ＡＢＣを確認する"), Key("abcを確認する"))
	assert.Equal(t, Key("見積もりを取る。"), Key("見積もりを取る"))
	assert.NotEqual(t, Key("見積もりを取る"), Key("見積もりを比べる"))
}

func TestIsInterrogative(t *testing.T) {
	assert.True(t, IsInterrogative("比較する？"))
	assert.True(t, IsInterrogative("is this needed?"))
	assert.False(t, IsInterrogative("比較する"))
}
