package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"atithi/internal/assistant"
	"atithi/internal/checkout"
	"atithi/internal/session"
)

// ChatRequest is the chat endpoint's request body.
type ChatRequest struct {
	Message    string `json:"message" binding:"required"`
	SessionID  string `json:"sessionId"`
	UserLocale string `json:"userLocale"`
}

// ChatResponse wraps the assistant reply with session bookkeeping the
// UI needs between turns.
type ChatResponse struct {
	assistant.Reply
	SessionID      string              `json:"sessionId"`
	Source         string              `json:"source"`
	SessionState   session.State       `json:"sessionState"`
	UnmatchedItems []string            `json:"unmatchedItems,omitempty"`
	Checkout       *checkout.Artifacts `json:"checkout,omitempty"`
}

// HandleChat runs one conversation turn: load the session, route the
// message through the assistant, fold the reply's cart declaration back
// into the session, and check out when the order is confirmed.
func (s *Server) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	sess := s.loadSession(c, req.SessionID)

	start := time.Now()
	reply, source := s.bot.Chat(ctx, assistant.ChatRequest{
		Message:    req.Message,
		UserLocale: req.UserLocale,
		History:    sess.History,
		Session:    sess,
	})
	if s.metrics != nil {
		s.metrics.ObserveChat(string(source), time.Since(start))
	}

	resp := ChatResponse{
		Reply:     reply,
		SessionID: sess.ID,
		Source:    string(source),
	}
	s.applyReply(&resp, reply, source, sess)

	sess.AppendTurn("user", req.Message)
	sess.AppendTurn("model", reply.Response)
	resp.SessionState = sess.State

	if err := s.sessions.Put(ctx, sess); err != nil {
		log.Printf("chat: failed to save session %s: %v", sess.ID, err)
	}

	c.JSON(http.StatusOK, resp)
}

// applyReply folds the reply's cart declaration into the session and
// advances the ordering state machine.
func (s *Server) applyReply(resp *ChatResponse, reply assistant.Reply, source assistant.Source, sess *session.Session) {
	switch reply.ActionType {
	case assistant.ActionItemAdded:
		s.commitCart(resp, reply, source, sess, true)
		if err := sess.Apply(session.EventItemAdded); err != nil {
			log.Printf("chat: session %s: %v", sess.ID, err)
		}

	case assistant.ActionShowTotal:
		s.commitCart(resp, reply, source, sess, false)
		// A remote turn can declare a cart and its total in one step
		// while the session is still browsing; walk through items_added.
		if sess.State == session.StateBrowsing && sess.HasItems() {
			_ = sess.Apply(session.EventItemAdded)
		}
		if err := sess.Apply(session.EventShowTotal); err != nil {
			log.Printf("chat: session %s: %v", sess.ID, err)
		}

	case assistant.ActionConfirmOrder:
		s.commitCart(resp, reply, source, sess, false)
		// The model may confirm straight from browsing or items_added
		// when the user is decisive; walk the intermediate states
		// rather than reject.
		if sess.State == session.StateBrowsing && sess.HasItems() {
			_ = sess.Apply(session.EventItemAdded)
		}
		if sess.State == session.StateItemsAdded {
			_ = sess.Apply(session.EventShowTotal)
		}
		if err := sess.Apply(session.EventConfirm); err != nil {
			log.Printf("chat: session %s: confirm rejected: %v", sess.ID, err)
			return
		}
		artifacts, err := s.checkout.Confirm(sess)
		if err != nil {
			log.Printf("chat: session %s: checkout failed: %v", sess.ID, err)
			return
		}
		resp.Checkout = artifacts
		if s.metrics != nil {
			s.metrics.RecordOrderPlaced()
		}
		sess.ClearCart()
	}
}

// commitCart reconciles the reply's cart declaration with the session.
// A local item_added declares only the newly added line, which merges
// into the cart; local totals and confirmations echo the session cart
// and change nothing. The remote responder declares the full
// accumulated cart on every turn, which replaces ours. Remote names are
// resolved against the catalog so a hallucinated dish never reaches an
// order; unmatched names are reported back but do not block the
// matched ones.
func (s *Server) commitCart(resp *ChatResponse, reply assistant.Reply, source assistant.Source, sess *session.Session, merge bool) {
	if source == assistant.SourceLocal {
		if merge {
			for _, line := range reply.CartItems {
				sess.AddLine(line.Name, line.Price, line.Quantity)
			}
		}
		return
	}

	var lines []session.Line
	for _, line := range reply.CartItems {
		item, ok := s.catalog.ByName(line.Name)
		if !ok {
			resp.UnmatchedItems = append(resp.UnmatchedItems, line.Name)
			continue
		}
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		lines = append(lines, session.Line{
			ItemName:  item.Name,
			UnitPrice: item.Price,
			Quantity:  qty,
		})
	}
	if len(lines) > 0 {
		sess.ReplaceLines(lines)
	}
}

// loadSession fetches the session for the request, creating a fresh one
// when the ID is unknown or absent.
func (s *Server) loadSession(c *gin.Context, id string) *session.Session {
	if id == "" {
		return session.New(newSessionID())
	}
	sess, err := s.sessions.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("chat: failed to load session %s: %v", id, err)
		}
		return session.New(id)
	}
	return sess
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return time.Now().Format("20060102150405.000000000")
	}
	return hex.EncodeToString(buf)
}
