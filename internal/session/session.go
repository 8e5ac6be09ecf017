package session

import (
	"fmt"
	"time"
)

// State is the position of a conversation in the ordering flow.
type State string

const (
	StateBrowsing   State = "browsing"
	StateItemsAdded State = "items_added"
	StateTotalShown State = "total_shown"
	StateConfirmed  State = "confirmed"
)

// Event is something the ordering flow reacts to.
type Event string

const (
	EventItemAdded Event = "item_added"
	EventShowTotal Event = "show_total"
	EventConfirm   Event = "confirm"
	EventReset     Event = "reset"
)

// transition defines one valid state change.
type transition struct {
	From State
	On   Event
	To   State
}

// validTransitions is the authoritative ordering-flow state machine.
// Anything not listed is rejected; callers treat a rejection as "defer
// to the remote responder" rather than as a hard failure.
var validTransitions = []transition{
	{From: StateBrowsing, On: EventItemAdded, To: StateItemsAdded},
	{From: StateItemsAdded, On: EventItemAdded, To: StateItemsAdded},
	{From: StateItemsAdded, On: EventShowTotal, To: StateTotalShown},
	{From: StateTotalShown, On: EventItemAdded, To: StateItemsAdded},
	{From: StateTotalShown, On: EventShowTotal, To: StateTotalShown},
	{From: StateTotalShown, On: EventConfirm, To: StateConfirmed},
	{From: StateConfirmed, On: EventItemAdded, To: StateItemsAdded},
	{From: StateBrowsing, On: EventReset, To: StateBrowsing},
	{From: StateItemsAdded, On: EventReset, To: StateBrowsing},
	{From: StateTotalShown, On: EventReset, To: StateBrowsing},
	{From: StateConfirmed, On: EventReset, To: StateBrowsing},
}

type transitionKey struct {
	From State
	On   Event
}

var transitionMap = func() map[transitionKey]State {
	m := make(map[transitionKey]State)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.On}] = t.To
	}
	return m
}()

// Next returns the state reached from `from` on `ev`, or an error when
// the transition is not allowed.
func Next(from State, ev Event) (State, error) {
	if to, ok := transitionMap[transitionKey{from, ev}]; ok {
		return to, nil
	}
	return from, fmt.Errorf("event %q is not valid in state %q", ev, from)
}

// Turn is one conversation turn, replayed to the remote responder.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"content"`
}

// Line is one accumulated cart entry. UnitPrice is snapshotted when the
// line is created and never re-read from the catalog.
type Line struct {
	ItemName  string  `json:"itemName"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// Session holds one browser session's ordering state. The assistant
// itself stays stateless; the API layer loads, mutates and saves
// sessions around each chat turn.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	Lines     []Line    `json:"lines,omitempty"`
	History   []Turn    `json:"history,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates a fresh session in the browsing state.
func New(id string) *Session {
	return &Session{ID: id, State: StateBrowsing, UpdatedAt: time.Now()}
}

// Apply advances the state machine. The session is unchanged when the
// transition is invalid.
func (s *Session) Apply(ev Event) error {
	next, err := Next(s.State, ev)
	if err != nil {
		return err
	}
	s.State = next
	if ev == EventReset {
		s.Lines = nil
		s.History = nil
	}
	s.UpdatedAt = time.Now()
	return nil
}

// AddLine merges a cart line into the session. Adding an item that is
// already present increments its quantity; the original unit price
// snapshot is kept.
func (s *Session) AddLine(name string, unitPrice float64, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	for i := range s.Lines {
		if s.Lines[i].ItemName == name {
			s.Lines[i].Quantity += quantity
			s.UpdatedAt = time.Now()
			return
		}
	}
	s.Lines = append(s.Lines, Line{ItemName: name, UnitPrice: unitPrice, Quantity: quantity})
	s.UpdatedAt = time.Now()
}

// Total sums unit price × quantity over the cart.
func (s *Session) Total() float64 {
	var sum float64
	for _, l := range s.Lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

// AppendTurn records a conversation turn. History is append-only.
func (s *Session) AppendTurn(role, text string) {
	s.History = append(s.History, Turn{Role: role, Text: text})
	s.UpdatedAt = time.Now()
}

// ClearCart drops the cart lines but keeps the conversation history.
// Used after checkout, where the order is committed elsewhere.
func (s *Session) ClearCart() {
	s.Lines = nil
	s.UpdatedAt = time.Now()
}

// ReplaceLines swaps the whole cart. The remote responder declares the
// full accumulated cart on every turn, so its view wins over ours.
func (s *Session) ReplaceLines(lines []Line) {
	s.Lines = lines
	s.UpdatedAt = time.Now()
}

// HasItems reports whether the cart holds anything.
func (s *Session) HasItems() bool {
	return len(s.Lines) > 0
}
