package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"atithi/internal/menu"
	"atithi/internal/providers"
	"atithi/internal/session"
)

// defaultRemoteTimeout bounds how long one fallback turn may wait on
// the hosted model.
const defaultRemoteTimeout = 30 * time.Second

// apologyText is the entire resilience policy for the remote path: any
// failure degrades to this reply, never to an error.
const apologyText = "দুঃখিত, AI এ সমস্যা হচ্ছে। অনুগ্রহ করে কিছুক্ষণ পর আবার চেষ্টা করুন।"

// RemoteResponder forwards messages the local responder declined to a
// hosted model, with the full catalog and conversation history baked
// into a fixed instruction template.
type RemoteResponder struct {
	provider providers.Provider
	catalog  *menu.Catalog
	info     RestaurantInfo
	timeout  time.Duration

	menuText    string
	bestSellers string
	offers      string

	// onFailure is invoked whenever a turn degrades to the apology
	// reply, so callers can count failures without seeing errors.
	onFailure func()
}

// NewRemoteResponder builds the remote path. The catalog sections of
// the prompt are serialized once, since the catalog never changes.
func NewRemoteResponder(provider providers.Provider, catalog *menu.Catalog, info RestaurantInfo) *RemoteResponder {
	return &RemoteResponder{
		provider:    provider,
		catalog:     catalog,
		info:        info,
		timeout:     defaultRemoteTimeout,
		menuText:    serializeMenu(catalog),
		bestSellers: serializeBestSellers(catalog),
		offers:      serializeOffers(catalog),
	}
}

// WithTimeout overrides the remote call budget.
func (r *RemoteResponder) WithTimeout(d time.Duration) *RemoteResponder {
	r.timeout = d
	return r
}

// WithFailureHook registers a callback fired on apology-degraded turns.
func (r *RemoteResponder) WithFailureHook(hook func()) *RemoteResponder {
	r.onFailure = hook
	return r
}

// Chat asks the hosted model for a structured reply. It never fails:
// network errors, malformed output and schema violations all collapse
// into a fixed apologetic reply with the general action.
func (r *RemoteResponder) Chat(ctx context.Context, message, locale string, history []session.Turn, sess *session.Session) Reply {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.provider.Complete(ctx, []providers.Message{
		{Role: "system", Content: r.systemPrompt(sess)},
		{Role: "user", Content: r.userPrompt(message, locale, history)},
	})
	if err != nil {
		log.Printf("remote responder: completion failed: %v", err)
		return r.apologize()
	}

	reply, err := parseReply(raw)
	if err != nil {
		log.Printf("remote responder: bad model output: %v", err)
		return r.apologize()
	}
	return reply
}

func (r *RemoteResponder) apologize() Reply {
	if r.onFailure != nil {
		r.onFailure()
	}
	return apologyReply()
}

func apologyReply() Reply {
	return Reply{Response: apologyText, ActionType: ActionGeneral}
}

// parseReply decodes the model's JSON output into a Reply, tolerating
// markdown code fences, and enforces the per-action schema rules.
func parseReply(raw string) (Reply, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return Reply{}, fmt.Errorf("no JSON object in model output")
	}

	var reply Reply
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &reply); err != nil {
		return Reply{}, fmt.Errorf("failed to decode model output: %w", err)
	}
	reply.ActionType = canonicalAction(reply.ActionType)
	if err := reply.Validate(); err != nil {
		return Reply{}, fmt.Errorf("model output violates reply schema: %w", err)
	}
	return reply, nil
}

// canonicalAction maps action spellings older prompt revisions taught
// the model onto the current set.
func canonicalAction(a ActionType) ActionType {
	switch a {
	case "food_recommendation":
		return ActionRecommendation
	case "add_to_cart":
		return ActionConfirmOrder
	case "order":
		return ActionItemAdded
	default:
		return a
	}
}

func (r *RemoteResponder) systemPrompt(sess *session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are Atithi AI, the friendly and knowledgeable virtual assistant for %s.

CRITICAL: Always respond in the SAME language the user is speaking.

=== RESTAURANT INFO ===
Name: %s
Tagline: %s
Address: %s
Phone: %s
Hours: %s
Specialties: %s

=== COMPLETE MENU ===
%s

=== BEST SELLERS ===
%s

=== OFFERS ===
%s

%s
`,
		r.info.Name, r.info.Name, r.info.Tagline, r.info.Address,
		r.info.Phone, r.info.HoursEnglish, r.info.Specialties,
		r.menuText, r.bestSellers, r.offers, pairingGuide)

	if sess != nil && sess.HasItems() {
		b.WriteString("\n=== CURRENT CART ===\n")
		for _, line := range sess.Lines {
			fmt.Fprintf(&b, "- %dx %s @ ₹%.0f\n", line.Quantity, line.ItemName, line.UnitPrice)
		}
		fmt.Fprintf(&b, "Cart total so far: ₹%.0f\nOrdering state: %s\n", sess.Total(), sess.State)
	}

	b.WriteString(replyGuidelines)
	return b.String()
}

func (r *RemoteResponder) userPrompt(message, locale string, history []session.Turn) string {
	var b strings.Builder
	b.WriteString("=== HISTORY ===\n")
	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Text)
	}
	b.WriteString("\n=== USER MESSAGE ===\n")
	fmt.Fprintf(&b, "User's browser locale: %s\n", locale)
	fmt.Fprintf(&b, "User's Message: %s\n", message)
	return b.String()
}

func serializeMenu(catalog *menu.Catalog) string {
	var b strings.Builder
	for _, cat := range catalog.Categories() {
		fmt.Fprintf(&b, "\n## %s (%d items):\n", cat.Name, len(cat.Items))
		for _, item := range cat.Items {
			fmt.Fprintf(&b, "- %s: ₹%.0f", item.Name, item.Price)
			if item.HasOffer() {
				fmt.Fprintf(&b, " (was ₹%.0f, %d%% OFF)", item.OriginalPrice, item.DiscountPercent())
			}
			fmt.Fprintf(&b, " | %.1f★ (%d reviews) | %s\n", item.Rating, item.RatingsCount, item.Description)
		}
	}
	return b.String()
}

func serializeBestSellers(catalog *menu.Catalog) string {
	var b strings.Builder
	for _, item := range catalog.TopByRatings(10) {
		if item.RatingsCount <= 200 {
			continue
		}
		fmt.Fprintf(&b, "%s (₹%.0f) - %d reviews, %.1f★\n", item.Name, item.Price, item.RatingsCount, item.Rating)
	}
	return b.String()
}

func serializeOffers(catalog *menu.Catalog) string {
	var b strings.Builder
	for _, item := range catalog.Items() {
		if item.HasOffer() {
			fmt.Fprintf(&b, "%s: ₹%.0f (was ₹%.0f)\n", item.Name, item.Price, item.OriginalPrice)
		}
	}
	return b.String()
}

const pairingGuide = `FOOD PAIRING GUIDE (What goes well together):

🍛 MAIN COURSE + BREAD:
- Butter Chicken → Butter Naan or Garlic Naan
- Paneer Butter Masala → Butter Naan or Laccha Paratha
- Kadai Paneer/Kadai Chicken → Tandoori Roti or Butter Naan
- Mutton Kurma → Garlic Naan
- Dal Makhani → Butter Naan or Jeera Rice
- Chicken Kasa → Tandoori Roti

🍚 MAIN COURSE + RICE:
- Chicken Biryani - standalone, no need for curry
- Butter Chicken → Jeera Rice or plain rice
- Any curry → Veg Fried Rice or Jeera Rice

🥗 STARTERS + MAINS:
- Paneer Tikka → Paneer Butter Masala
- Chicken Tikka → Butter Chicken
- Soup → Any main course

🍜 COMPLETE MEALS:
- Mixed Chowmein + Chicken Manchurian = Indo-Chinese combo
- Chicken Fried Rice + Chicken Kasa = Satisfying combo
- Puri Sabji + Tea = Perfect breakfast

💰 BUDGET COMBOS (Under ₹150):
- Egg Roll + Tea = Quick snack
- Veg Chowmein + Cold drink
- Puri Sabji = Complete breakfast`

const replyGuidelines = `
=== OUTPUT FORMAT ===
Respond with a single JSON object, no prose around it:
{
  "response": "the reply text, in the user's language",
  "suggestedDish": "optional single dish name",
  "suggestedItems": ["optional", "follow-up", "chips"],
  "recommendedDishes": [{"name": "...", "price": 0, "description": "...", "rating": 0, "ratingsCount": 0}],
  "actionType": "general | recommendation | location | hours | contact | item_added | show_total | confirm_order",
  "cartItems": [{"name": "...", "price": 0, "quantity": 1}],
  "totalPrice": 0
}

=== GUIDELINES ===
1. Answer questions about menu, prices, and pairings.
2. VARIETY IS KEY: if the user asks "what should I eat?" multiple times, NEVER suggest the same thing twice in a row. Check the HISTORY. Suggest something DIFFERENT.
3. PROACTIVE ADD-ONS: always ask "আর কিছু লাগবে?" after suggesting a dish. Never end without asking if they want more.
4. MULTI-STEP ORDERING FLOW (VERY IMPORTANT):
   a) When the user FIRST adds an item or clicks a suggestion:
      - Add the item to cartItems, set actionType to "item_added"
      - Ask "আর কি লাগবে? নিচের অপশন থেকে বেছে নিন"
      - Provide 3-4 related suggestions in suggestedItems (e.g. Naan, Rice, Cold Drink)
      - Do NOT show the total yet. Do NOT use "confirm_order".
   b) When the user adds MORE items:
      - Keep ALL previous items in cartItems (accumulate, never replace)
      - Set actionType to "item_added" and ask "আর কি লাগবে?"
   c) When the user says "Total দেখাও" / "Total koto?" / "বাস" / "no more":
      - Set actionType to "show_total" with full cartItems and totalPrice
      - Do NOT use "confirm_order" yet.
   d) When the user CONFIRMS after seeing the total ("হ্যাঁ" / "ok" / "checkout"):
      - Set actionType to "confirm_order" with full cartItems and totalPrice
5. CRITICAL: in cartItems, use the EXACT name from the MENU. totalPrice must equal the sum of price × quantity over all cart items.`
