package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("analyze: %w", Wrap(KindUpstream, "generation failed", cause))

	assert.Equal(t, KindUpstream, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindUpstream))
	assert.False(t, Is(wrapped, KindBusy))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, Kind(""), KindOf(cause))
	assert.False(t, Is(nil, KindUpstream))
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), "boom"},
		{"failure", New(KindIneligible, "complete more tasks first"), "complete more tasks first"},
		{"upstream includes cause", Wrap(KindUpstream, "generation failed", errors.New("503")), "generation failed: 503"},
		{"wrapped", fmt.Errorf("ctx: %w", Newf(KindNotFound, "item %s not found", "x")), "item x not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestErrorIsByKind(t *testing.T) {
	err := fmt.Errorf("decompose: %w", New(KindBusy, "item is busy"))
	assert.ErrorIs(t, err, &Error{Kind: KindBusy})
	assert.NotErrorIs(t, err, &Error{Kind: KindInvalid})
	assert.Equal(t, "[BUSY] item is busy", New(KindBusy, "item is busy").Error())
}
