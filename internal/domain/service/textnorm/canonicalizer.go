package textnorm

import "strings"

// Canonicalizer turns a free-text line into an imperative action phrase.
// Implementations must never fail: ambiguous input still yields some phrase.
type Canonicalizer interface {
	Canonicalize(line string) string
}

// CanonicalizerFunc adapts a plain function to Canonicalizer.
type CanonicalizerFunc func(string) string

// Canonicalize calls f(line).
func (f CanonicalizerFunc) Canonicalize(line string) string { return f(line) }

// Passthrough only normalizes and strips trailing punctuation.
var Passthrough Canonicalizer = CanonicalizerFunc(func(line string) string {
	return TrimSentencePunct(Normalize(line))
})

// Rule rewrites a trailing pattern into its imperative replacement.
type Rule struct {
	Suffix      string
	Replacement string
}

// JapaneseCanonicalizer rewrites Japanese phrases into the plain dictionary
// form used for checklist actions ("見積もりを取る", "予算を確認する").
type JapaneseCanonicalizer struct {
	// Auxiliary is appended to bare topic nouns.
	Auxiliary string
	// Fallback is appended when nothing else matched. Empty means Auxiliary.
	Fallback   string
	Rules      []Rule
	TopicWords []string
}

// DefaultRules is evaluated in order; the first matching suffix wins.
var DefaultRules = []Rule{
	{Suffix: "しましょう", Replacement: "する"},
	{Suffix: "しています", Replacement: "する"},
	{Suffix: "しました", Replacement: "する"},
	{Suffix: "してください", Replacement: "する"},
	{Suffix: "して下さい", Replacement: "する"},
	{Suffix: "します", Replacement: "する"},
	{Suffix: "しよう", Replacement: "する"},
	{Suffix: "したい", Replacement: "する"},
	{Suffix: "すること", Replacement: "する"},
	{Suffix: "すべき", Replacement: "する"},
	{Suffix: "が必要です", Replacement: "を用意する"},
	{Suffix: "が必要", Replacement: "を用意する"},
	{Suffix: "できます", Replacement: "できる"},
	{Suffix: "ておきます", Replacement: "ておく"},
	{Suffix: "でおきます", Replacement: "でおく"},
	{Suffix: "てみます", Replacement: "てみる"},
	{Suffix: "でみます", Replacement: "でみる"},
	{Suffix: "ています", Replacement: "ている"},
	{Suffix: "でいます", Replacement: "でいる"},
	{Suffix: "ります", Replacement: "る"},
	{Suffix: "きます", Replacement: "く"},
	{Suffix: "ぎます", Replacement: "ぐ"},
	{Suffix: "みます", Replacement: "む"},
	{Suffix: "びます", Replacement: "ぶ"},
	{Suffix: "ちます", Replacement: "つ"},
	{Suffix: "います", Replacement: "う"},
	{Suffix: "について", Replacement: "について調べる"},
	{Suffix: "の確認", Replacement: "を確認する"},
	{Suffix: "の検討", Replacement: "を検討する"},
	{Suffix: "の準備", Replacement: "を準備する"},
	{Suffix: "の作成", Replacement: "を作成する"},
	{Suffix: "の調査", Replacement: "を調査する"},
	{Suffix: "の整理", Replacement: "を整理する"},
}

// DefaultTopicWords are nouns that become actions by appending the auxiliary.
var DefaultTopicWords = []string{
	"確認", "検討", "調査", "準備", "作成", "整理", "連絡", "相談", "比較",
	"設定", "登録", "申請", "予約", "購入", "実行", "計画", "共有", "提出",
	"見直し", "洗い出し", "決定", "報告", "依頼", "手配",
}

// politeEndings end in a dictionary-form kana but are not plain actions.
var politeEndings = []string{"ます", "ました", "ません", "です", "でした", "ましょう", "よう"}

// dictionaryEndings are the kana a plain-form verb can end with.
var dictionaryEndings = []string{"う", "く", "ぐ", "す", "つ", "ぬ", "ぶ", "む", "る", "ない"}

// NewJapaneseCanonicalizer returns a canonicalizer with the default tables.
func NewJapaneseCanonicalizer() *JapaneseCanonicalizer {
	return &JapaneseCanonicalizer{
		Auxiliary:  "する",
		Rules:      DefaultRules,
		TopicWords: DefaultTopicWords,
	}
}

var defaultCanonicalizer Canonicalizer = NewJapaneseCanonicalizer()

// ToImperativeForm canonicalizes line with the default Japanese tables.
func ToImperativeForm(line string) string {
	return defaultCanonicalizer.Canonicalize(line)
}

// Canonicalize implements Canonicalizer.
func (c *JapaneseCanonicalizer) Canonicalize(line string) string {
	s := TrimSentencePunct(Normalize(line))
	if s == "" || !containsJapanese(s) || c.isImperative(s) {
		return s
	}

	for _, r := range c.Rules {
		if strings.HasSuffix(s, r.Suffix) {
			return strings.TrimSuffix(s, r.Suffix) + r.Replacement
		}
	}

	for _, w := range c.TopicWords {
		if strings.HasSuffix(s, w) {
			return s + c.Auxiliary
		}
	}

	if c.Fallback != "" {
		return s + c.Fallback
	}
	return s + c.Auxiliary
}

func (c *JapaneseCanonicalizer) isImperative(s string) bool {
	if c.Auxiliary != "" && strings.HasSuffix(s, c.Auxiliary) {
		return true
	}
	for _, p := range politeEndings {
		if strings.HasSuffix(s, p) {
			return false
		}
	}
	for _, e := range dictionaryEndings {
		if strings.HasSuffix(s, e) {
			return true
		}
	}
	return false
}
