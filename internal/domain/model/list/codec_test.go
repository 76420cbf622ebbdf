package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/parking"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	f := newFixture(t, "a", "b", "c")
	_, err := f.doc.ApplyDecomposition(f.id(t, "a"), []string{"x", "y", "z"}, f.env())
	require.NoError(t, err)
	_, err = f.doc.SetStatus(f.id(t, "b"), checklist.StatusLater, f.env())
	require.NoError(t, err)
	_, err = f.doc.DeleteItem(f.id(t, "c"), f.env())
	require.NoError(t, err)
	f.doc.SetGoals("ship it", f.env())
	f.doc.SetAnalysis("[budget]\n- 見積もりを取る", f.env())
	f.doc.SetIssuedPrompt("prompt", f.env())
	f.doc.ArchivedCreated = 4
	f.doc.ArchivedDone = 3
	f.doc.Stage = 2

	data, err := Encode(f.doc)
	require.NoError(t, err)
	got := Decode(data)

	assert.Equal(t, f.doc.State, got.State)
	assert.Equal(t, f.doc.History, got.History)
	assert.True(t, f.doc.UpdatedAt.Equal(got.UpdatedAt))

	again, err := Encode(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestEncode_FieldNames(t *testing.T) {
	f := newFixture(t, "a")
	data, err := Encode(f.doc)
	require.NoError(t, err)

	for _, key := range []string{
		"draft", "goals", "analysis", "checklist", "stage", "usedActionKeys",
		"stageHistory", "issuedPrompt", "archivedCreated", "archivedDone",
		"parked", "updatedAt",
	} {
		assert.Contains(t, string(data), `"`+key+`"`)
	}
	assert.NotContains(t, string(data), "HistoryLimit")
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"garbage", "{not json"},
		{"array", "[1,2,3]"},
		{"null", "null"},
		{"string", `"hello"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decode([]byte(tt.data))
			require.NotNil(t, d)
			assert.Equal(t, 1, d.Stage)
			assert.Empty(t, d.Checklist)
			assert.Empty(t, d.Parked)
			assert.Empty(t, d.History)
		})
	}
}

func TestDecode_CoercesFields(t *testing.T) {
	data := `{
		"draft": 42,
		"goals": "g",
		"stage": -3,
		"archivedCreated": 2,
		"archivedDone": 9,
		"usedActionKeys": ["Ａ", "a", "b"],
		"checklist": [
			{"id": "1", "text": "root", "depth": 2, "type": "weird", "status": "later", "done": true},
			{"id": "1", "text": "dup id", "depth": 5},
			{"text": "   "},
			"not an object",
			{"id": "3", "text": "g", "type": "group", "status": "unknown", "depth": -1}
		],
		"parked": [
			{"text": "p", "category": "", "status": "bogus", "stage": -1, "resolvedAt": "2025-01-01T00:00:00Z", "resolution": "??"},
			{"text": "p", "category": "uncategorized"},
			{"text": ""}
		],
		"stageHistory": [
			{"stage": 0, "state": {"stage": 4, "draft": "old"}},
			{"id": "s2", "state": "broken"}
		]
	}`

	d := Decode([]byte(data))

	assert.Equal(t, "", d.Draft)
	assert.Equal(t, "g", d.Goals)
	assert.Equal(t, 1, d.Stage)
	assert.Equal(t, 2, d.ArchivedCreated)
	assert.Equal(t, 2, d.ArchivedDone)
	assert.Equal(t, Registry{"a", "b"}, d.UsedActions)

	require.Len(t, d.Checklist, 3)
	assert.NoError(t, d.Checklist.Validate())
	root := d.Checklist[0]
	assert.Equal(t, "1", root.ID)
	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, checklist.TypeTask, root.Type)
	assert.Equal(t, checklist.StatusLater, root.Status)
	assert.False(t, root.Done)
	assert.Equal(t, checklist.DefaultCategory, root.Category)

	dup := d.Checklist[1]
	assert.Equal(t, "legacy-item-2", dup.ID)
	assert.Equal(t, 1, dup.Depth)

	group := d.Checklist[2]
	assert.Equal(t, checklist.TypeGroup, group.Type)
	assert.Equal(t, checklist.StatusNormal, group.Status)
	assert.Equal(t, 0, group.Depth)

	require.Len(t, d.Parked, 1)
	p := d.Parked[0]
	assert.Equal(t, parking.KeyOf(checklist.DefaultCategory, "p"), p.Key)
	assert.Equal(t, parking.StatusLater, p.Status)
	assert.Equal(t, 0, p.Stage)
	require.NotNil(t, p.ResolvedAt)
	assert.Equal(t, parking.ResolutionCleared, p.Resolution)

	require.Len(t, d.History, 2)
	assert.Equal(t, "legacy-snapshot-1", d.History[0].ID)
	assert.Equal(t, 4, d.History[0].Stage)
	assert.Equal(t, "old", d.History[0].State.Draft)
	assert.Equal(t, "s2", d.History[1].ID)
	assert.Equal(t, 1, d.History[1].State.Stage)
}
