package assistant

import (
	"fmt"
	"math"
)

// ActionType discriminates which UI treatment a reply gets.
type ActionType string

const (
	ActionGeneral        ActionType = "general"
	ActionRecommendation ActionType = "recommendation"
	ActionLocation       ActionType = "location"
	ActionHours          ActionType = "hours"
	ActionContact        ActionType = "contact"
	ActionItemAdded      ActionType = "item_added"
	ActionShowTotal      ActionType = "show_total"
	ActionConfirmOrder   ActionType = "confirm_order"
)

// CartLine is one accumulated order entry declared by a reply. Price is
// the unit price snapshot at add-time.
type CartLine struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// RecommendedDish is a rich card the UI renders in a horizontal list.
type RecommendedDish struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	RatingsCount int     `json:"ratingsCount,omitempty"`
	Image        string  `json:"image,omitempty"`
}

// Reply is the assistant's structured answer. Which optional fields are
// populated depends on ActionType; Validate enforces the per-action
// rules from the table below.
type Reply struct {
	Response          string            `json:"response"`
	SuggestedDish     string            `json:"suggestedDish,omitempty"`
	SuggestedItems    []string          `json:"suggestedItems,omitempty"`
	RecommendedDishes []RecommendedDish `json:"recommendedDishes,omitempty"`
	ActionType        ActionType        `json:"actionType"`
	CartItems         []CartLine        `json:"cartItems,omitempty"`
	TotalPrice        float64           `json:"totalPrice,omitempty"`
}

// actionRules declares what each action type requires of a reply.
var actionRules = map[ActionType]struct {
	requiresCart  bool
	requiresTotal bool
}{
	ActionGeneral:        {},
	ActionRecommendation: {},
	ActionLocation:       {},
	ActionHours:          {},
	ActionContact:        {},
	ActionItemAdded:      {requiresCart: true},
	ActionShowTotal:      {requiresCart: true, requiresTotal: true},
	ActionConfirmOrder:   {requiresCart: true, requiresTotal: true},
}

// Validate checks the reply against the per-action rules. For totals it
// verifies the declared total equals the sum of unit price × quantity
// over the cart lines.
func (r Reply) Validate() error {
	rule, ok := actionRules[r.ActionType]
	if !ok {
		return fmt.Errorf("unknown action type %q", r.ActionType)
	}
	if r.Response == "" {
		return fmt.Errorf("reply with action %q has empty response text", r.ActionType)
	}
	if rule.requiresCart && len(r.CartItems) == 0 {
		return fmt.Errorf("action %q requires cart items", r.ActionType)
	}
	for _, line := range r.CartItems {
		if line.Name == "" || line.Quantity <= 0 {
			return fmt.Errorf("action %q carries a malformed cart line %+v", r.ActionType, line)
		}
	}
	if rule.requiresTotal {
		var sum float64
		for _, line := range r.CartItems {
			sum += line.Price * float64(line.Quantity)
		}
		if math.Abs(sum-r.TotalPrice) > 0.01 {
			return fmt.Errorf("action %q declares total %.2f but cart lines sum to %.2f",
				r.ActionType, r.TotalPrice, sum)
		}
	}
	return nil
}

// CartTotal sums unit price × quantity over the reply's cart lines.
func (r Reply) CartTotal() float64 {
	var sum float64
	for _, line := range r.CartItems {
		sum += line.Price * float64(line.Quantity)
	}
	return sum
}
