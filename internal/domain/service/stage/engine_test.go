package stage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/parking"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/extract"
)

var now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

const analysis = `[budget]
- get quotes
- compare vendors
- 比較する？
[schedule]
- book the venue
- send invitations
[people]
- ask Sam
- ask Kim
[misc]
L3: write notes`

func newEnv() list.Env {
	return list.Env{Now: now, IDs: &model.SequenceGenerator{Prefix: "n"}}
}

// seed builds a document with the given tasks; done and later mark tasks by
// position.
func seed(t *testing.T, env list.Env, texts []string, done []int, later []int) *list.Document {
	t.Helper()
	doc := list.New(now)
	for i := len(texts) - 1; i >= 0; i-- {
		_, err := doc.AddTask(texts[i], "", env)
		require.NoError(t, err)
	}
	ids := make([]string, len(doc.Checklist))
	for i, it := range doc.Checklist {
		ids[i] = it.ID
	}
	for _, i := range done {
		_, err := doc.ToggleDone(ids[i], env)
		require.NoError(t, err)
	}
	for _, i := range later {
		_, err := doc.SetStatus(ids[i], checklist.StatusLater, env)
		require.NoError(t, err)
	}
	return doc
}

func actions(items []checklist.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}

func TestEngine_CanAdvance(t *testing.T) {
	e := NewEngine(DefaultPolicy(), nil)
	env := newEnv()

	tests := []struct {
		name  string
		tasks int
		done  []int
		want  bool
	}{
		{"empty list", 0, nil, true},
		{"two remaining", 2, nil, true},
		{"three remaining none done", 3, nil, false},
		{"three done", 6, []int{0, 1, 2}, true},
		{"two done three remaining", 5, []int{0, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			texts := make([]string, tt.tasks)
			for i := range texts {
				texts[i] = string(rune('a' + i))
			}
			doc := seed(t, env, texts, tt.done, nil)
			assert.Equal(t, tt.want, e.CanAdvance(doc.Checklist))
		})
	}
}

func TestEngine_CanAdvanceIgnoresGroups(t *testing.T) {
	e := NewEngine(DefaultPolicy(), nil)
	env := newEnv()
	doc := seed(t, env, []string{"a"}, nil, nil)
	_, err := doc.ApplyDecomposition(doc.Checklist[0].ID, []string{"x", "y", "z"}, env)
	require.NoError(t, err)

	assert.False(t, e.CanAdvance(doc.Checklist), "the done group does not count")
}

func TestPick(t *testing.T) {
	cands := []extract.Candidate{
		{Category: "a", Action: "a1"},
		{Category: "a", Action: "a2"},
		{Category: "b", Action: "b1"},
		{Category: "a", Action: "a3"},
		{Category: "c", Action: "c1"},
		{Category: "b", Action: "b2"},
		{Category: "d", Action: "a1"},
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"spread then fill", 5, []string{"a1", "b1", "c1", "a1", "a2"}},
		{"spread only", 3, []string{"a1", "b1", "c1"}},
		{"all", 10, []string{"a1", "b1", "c1", "a1", "a2", "a3", "b2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pick(cands, tt.limit)
			acts := make([]string, len(got))
			for i, c := range got {
				acts[i] = c.Action
			}
			assert.Equal(t, tt.want, acts)
		})
	}
}

func TestPick_FillSkipsPickedActions(t *testing.T) {
	cands := []extract.Candidate{
		{Category: "a", Action: "x"},
		{Category: "a", Action: "x"},
		{Category: "a", Action: "y"},
	}
	got := Pick(cands, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].Action)
	assert.Equal(t, "y", got[1].Action)
}

func TestEngine_Eligible(t *testing.T) {
	e := NewEngine(DefaultPolicy(), nil)
	doc := list.New(now)
	doc.Analysis = analysis + "\n- Get quotes\n"
	doc.UsedActions.Add("ask Kim")

	got := e.Eligible(doc)

	var acts []string
	for _, c := range got {
		acts = append(acts, c.Action)
	}
	assert.Equal(t, []string{
		"get quotes", "compare vendors", "book the venue", "send invitations", "ask Sam", "write notes",
	}, acts)
	assert.Equal(t, "misc", got[len(got)-1].Category)
}

func TestEngine_Advance(t *testing.T) {
	e := NewEngine(DefaultPolicy(), nil)
	env := newEnv()
	doc := seed(t, env, []string{"t1", "t2", "t3", "t4", "t5"}, []int{0, 1, 2}, nil)
	doc.Analysis = analysis

	out, err := e.Advance(doc, env)
	require.NoError(t, err)

	assert.Equal(t, 2, out.Stage)
	assert.Equal(t, 2, doc.Stage)
	assert.Equal(t, []string{"get quotes", "book the venue", "ask Sam", "write notes", "compare vendors"}, actions(out.Issued))
	assert.Equal(t, 2, out.Remaining)
	assert.Equal(t, out.Issued, []checklist.Item(doc.Checklist))
	for _, it := range doc.Checklist {
		assert.Equal(t, 0, it.Depth)
		assert.Equal(t, checklist.StatusNormal, it.Status)
		assert.False(t, it.Done)
		assert.True(t, doc.UsedActions.Has(it.Text))
	}
	assert.Equal(t, "budget", doc.Checklist[0].Category)

	assert.Equal(t, 5, doc.ArchivedCreated)
	assert.Equal(t, 3, doc.ArchivedDone)

	require.Len(t, out.CarriedOver, 2)
	assert.Equal(t, []string{"t4", "t5"}, []string{out.CarriedOver[0].Text, out.CarriedOver[1].Text})
	for _, p := range out.CarriedOver {
		assert.Equal(t, parking.StatusLater, p.Status)
		assert.Equal(t, 1, p.Stage)
	}

	require.Len(t, doc.History, 1)
	assert.Equal(t, out.SnapshotID, doc.History[0].ID)
	assert.Len(t, doc.History[0].State.Checklist, 5)

	second, err := e.Advance(doc, env)
	require.Error(t, err, "five fresh tasks are not eligible")
	assert.Empty(t, second.Issued)
}

func TestEngine_AdvanceScenarioLaterTask(t *testing.T) {
	e := NewEngine(DefaultPolicy(), nil)
	env := newEnv()
	doc := seed(t, env, []string{"a", "b", "c", "d"}, []int{0, 1, 2}, []int{3})
	doc.Analysis = "[x]\n- next one"
	laterKey := parking.KeyOf(checklist.DefaultCategory, "d")

	out, err := e.Advance(doc, env)
	require.NoError(t, err)
	assert.Len(t, out.Issued, 1)

	p, ok := doc.Parked.Find(laterKey)
	require.True(t, ok)
	assert.Equal(t, parking.StatusLater, p.Status)
	assert.False(t, p.Resolved())
}

func TestEngine_AdvanceKeepsUnresolvedUnknown(t *testing.T) {
	e := NewEngine(DefaultPolicy(), nil)
	env := newEnv()
	doc := seed(t, env, []string{"a", "b"}, nil, nil)
	_, err := doc.SetStatus(doc.Checklist[0].ID, checklist.StatusUnknown, env)
	require.NoError(t, err)
	doc.Analysis = "- next"

	out, err := e.Advance(doc, env)
	require.NoError(t, err)

	statuses := map[string]parking.Status{}
	for _, p := range out.CarriedOver {
		statuses[p.Text] = p.Status
	}
	assert.Equal(t, map[string]parking.Status{"a": parking.StatusUnknown, "b": parking.StatusLater}, statuses)
}

func TestEngine_AdvanceIsDeterministic(t *testing.T) {
	run := func() (Outcome, *list.Document) {
		e := NewEngine(DefaultPolicy(), nil)
		env := newEnv()
		doc := seed(t, env, []string{"t1", "t2", "t3", "t4"}, []int{0, 1, 2}, nil)
		doc.Analysis = analysis
		doc.UsedActions.Add("book the venue")
		out, err := e.Advance(doc, env)
		require.NoError(t, err)
		return out, doc
	}

	first, doc1 := run()
	second, doc2 := run()
	assert.Equal(t, first, second)
	assert.Equal(t, doc1.Parked, doc2.Parked)
	assert.Equal(t, []string{"get quotes", "send invitations", "ask Sam", "write notes", "compare vendors"}, actions(first.Issued))
}

func TestEngine_AdvanceStageFloor(t *testing.T) {
	e := NewEngine(DefaultPolicy(), nil)
	env := newEnv()
	doc := list.New(now)
	doc.Stage = 0
	doc.Analysis = "- x"

	out, err := e.Advance(doc, env)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Stage)
}

func TestEngine_AdvanceRefusals(t *testing.T) {
	e := NewEngine(DefaultPolicy(), nil)

	tests := []struct {
		name    string
		setup   func(t *testing.T, env list.Env) *list.Document
		wantMsg string
	}{
		{
			name: "not eligible",
			setup: func(t *testing.T, env list.Env) *list.Document {
				doc := seed(t, env, []string{"a", "b", "c"}, nil, nil)
				doc.Analysis = analysis
				return doc
			},
		},
		{
			name: "no analysis",
			setup: func(t *testing.T, env list.Env) *list.Document {
				doc := seed(t, env, []string{"a"}, nil, nil)
				doc.Analysis = "  \n "
				return doc
			},
			wantMsg: MsgNoAnalysis,
		},
		{
			name: "every candidate used",
			setup: func(t *testing.T, env list.Env) *list.Document {
				doc := seed(t, env, []string{"a"}, nil, nil)
				doc.Analysis = "- x\n- y\n- z?"
				doc.UsedActions.Add("x", "Y")
				return doc
			},
			wantMsg: MsgNoCandidates,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv()
			doc := tt.setup(t, env)
			before, err := list.Encode(doc)
			require.NoError(t, err)

			_, err = e.Advance(doc, env)
			require.Error(t, err)
			assert.True(t, failure.Is(err, failure.KindIneligible))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, failure.Message(err))
			}

			after, err := list.Encode(doc)
			require.NoError(t, err)
			assert.JSONEq(t, string(before), string(after), "refusal must not mutate")
		})
	}
}

func TestEngine_AdvanceJapaneseAnalysis(t *testing.T) {
	e := NewEngine(DefaultPolicy(), nil)
	env := newEnv()
	doc := list.New(now)
	doc.Analysis = "[budget]\n- 見積もりを取る\n- 比較する？"

	assert.Len(t, e.Eligible(doc), 1)
	out, err := e.Advance(doc, env)
	require.NoError(t, err)
	require.Len(t, out.Issued, 1)
	assert.Equal(t, "見積もりを取る", out.Issued[0].Text)
	assert.Equal(t, "budget", out.Issued[0].Category)
}
