package assistant

import (
	"context"

	"atithi/internal/session"
)

// Source says which path produced a reply.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// ChatRequest is one user turn. History and Session are caller-supplied
// on every turn; the assistant itself holds no per-user state.
type ChatRequest struct {
	Message    string
	UserLocale string
	History    []session.Turn
	Session    *session.Session
}

// Assistant is the two-tier responder: the free local rule engine
// first, the hosted model only when the rules decline. That ordering is
// the entire routing policy — no caching, no blending, no racing.
type Assistant struct {
	local  *LocalResponder
	remote *RemoteResponder
}

// New wires the orchestrator.
func New(local *LocalResponder, remote *RemoteResponder) *Assistant {
	return &Assistant{local: local, remote: remote}
}

// Chat produces a reply for one user turn. It never returns an error:
// local misses fall through to the remote path, and remote failures
// degrade to an apologetic reply inside the RemoteResponder.
func (a *Assistant) Chat(ctx context.Context, req ChatRequest) (Reply, Source) {
	if reply, handled := a.local.TryRespond(req.Message, req.Session); handled {
		return reply, SourceLocal
	}
	return a.remote.Chat(ctx, req.Message, req.UserLocale, req.History, req.Session), SourceRemote
}
