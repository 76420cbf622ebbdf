package list

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/stagelist/internal/domain/model"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
)

var epoch = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	doc *Document
	ids *model.SequenceGenerator
	now time.Time
}

func newFixture(t *testing.T, texts ...string) *fixture {
	t.Helper()
	f := &fixture{doc: New(epoch), ids: &model.SequenceGenerator{Prefix: "i"}, now: epoch}
	// AddTask prepends, so add in reverse to keep the given order.
	for i := len(texts) - 1; i >= 0; i-- {
		_, err := f.doc.AddTask(texts[i], "", f.env())
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) env() Env {
	f.now = f.now.Add(time.Second)
	return Env{Now: f.now, IDs: f.ids}
}

func (f *fixture) id(t *testing.T, text string) string {
	t.Helper()
	for _, it := range f.doc.Checklist {
		if it.Text == text {
			return it.ID
		}
	}
	t.Fatalf("no item with text %q", text)
	return ""
}

func (f *fixture) item(t *testing.T, text string) checklist.Item {
	t.Helper()
	it, ok := f.doc.Checklist.Find(f.id(t, text))
	require.True(t, ok)
	return it
}
