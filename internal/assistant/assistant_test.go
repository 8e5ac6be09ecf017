package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/session"
)

func TestChatPrefersLocalPath(t *testing.T) {
	stub := &stubProvider{reply: `{"response": "remote", "actionType": "general"}`}
	catalog := fixtureCatalog(t)
	a := New(
		NewLocalResponder(catalog, DefaultRestaurantInfo()),
		NewRemoteResponder(stub, catalog, DefaultRestaurantInfo()),
	)

	reply, source := a.Chat(context.Background(), ChatRequest{
		Message: "butter chicken dao",
		Session: session.New("s1"),
	})
	assert.Equal(t, SourceLocal, source)
	assert.Equal(t, ActionItemAdded, reply.ActionType)
	assert.Zero(t, stub.calls, "the model must not be consulted when rules answer")
}

func TestChatFallsBackToRemote(t *testing.T) {
	stub := &stubProvider{reply: `{"response": "from the model", "actionType": "general"}`}
	catalog := fixtureCatalog(t)
	a := New(
		NewLocalResponder(catalog, DefaultRestaurantInfo()),
		NewRemoteResponder(stub, catalog, DefaultRestaurantInfo()),
	)

	reply, source := a.Chat(context.Background(), ChatRequest{
		Message: "tell me your story",
		Session: session.New("s1"),
	})
	require.Equal(t, SourceRemote, source)
	assert.Equal(t, "from the model", reply.Response)
	assert.Equal(t, 1, stub.calls)
}
