package assistant

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"atithi/internal/menu"
	"atithi/internal/session"
)

const (
	// maxOrderMessageLen bounds the messages the local responder is
	// willing to auto-order from. Longer messages tend to be compound
	// sentences ("I want burger but not now") better left to the model.
	maxOrderMessageLen = 60
	// maxGreetingLen keeps "hello, also where are you located" from
	// being swallowed by the greeting rule.
	maxGreetingLen = 25

	defaultBudgetCeiling = 100
	filterBudgetCeiling  = 150
	premiumFloor         = 200
)

// LocalResponder answers messages it can classify confidently, using
// only the catalog and static restaurant facts. No network; safe for
// concurrent use.
type LocalResponder struct {
	catalog  *menu.Catalog
	resolver *Resolver
	info     RestaurantInfo

	// mu guards rng; math/rand sources are not concurrency-safe and
	// every HTTP and WebSocket turn shares this responder.
	mu  sync.Mutex
	rng *rand.Rand

	// onMiss is invoked when an ordering message names a dish the
	// resolver cannot match, so callers can count resolver misses.
	onMiss func()
}

// NewLocalResponder builds the rule-based responder.
func NewLocalResponder(catalog *menu.Catalog, info RestaurantInfo) *LocalResponder {
	return &LocalResponder{
		catalog:  catalog,
		resolver: NewResolver(catalog),
		info:     info,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand swaps the randomness source; tests pass a seeded one.
func (l *LocalResponder) WithRand(rng *rand.Rand) *LocalResponder {
	l.rng = rng
	return l
}

// WithMissHook registers a callback fired on unresolvable order items.
func (l *LocalResponder) WithMissHook(hook func()) *LocalResponder {
	l.onMiss = hook
	return l
}

func (l *LocalResponder) randomItems(n int) []menu.MenuItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.catalog.Random(n, l.rng)
}

// TryRespond attempts to answer locally. The boolean is the sole
// fallback signal: false means the orchestrator should go remote.
// Rules run in a fixed priority order; session-guarded total/confirm
// checks come first because their trigger words collide with ordering
// vocabulary, then ordering (with negation deferral), then the
// informational rules.
func (l *LocalResponder) TryRespond(message string, sess *session.Session) (Reply, bool) {
	m := strings.ToLower(strings.TrimSpace(message))
	if m == "" {
		return Reply{}, false
	}

	// Show total: only when the explicit session state says there is
	// something to total up.
	if sess != nil && sess.HasItems() && hasIntent(m, IntentShowTotal) {
		return l.showTotal(sess), true
	}

	// Confirm: only directly after a total was shown. A bare "yes" in
	// any other state is ambiguous and goes to the remote path.
	if sess != nil && sess.State == session.StateTotalShown && IsConfirmation(m) {
		return l.confirmOrder(sess), true
	}

	// Ordering comes before everything informational so that "butter
	// chicken dao" never reads as a price query.
	if hasIntent(m, IntentOrder) {
		if IsNegated(m) {
			// Cancellation phrasing is deliberately left to the model.
			return Reply{}, false
		}
		item, ok := l.resolver.Resolve(m)
		if !ok {
			if l.onMiss != nil {
				l.onMiss()
			}
			return Reply{}, false
		}
		if len(m) >= maxOrderMessageLen {
			return Reply{}, false
		}
		return l.itemAdded(item, ExtractQuantity(m)), true
	}

	if IsGreeting(m) {
		return Reply{
			Response:       "নমস্কার! 🙏 আমি Atithi AI। আজ কি খাবেন? 🍛\n\nনিচের অপশন থেকে বেছে নিন অথবা জিজ্ঞেস করুন!",
			SuggestedItems: []string{"🏆 জনপ্রিয় খাবার", "💰 সস্তা খাবার", "🍗 চিকেন", "🥬 ভেজ"},
			ActionType:     ActionGeneral,
		}, true
	}

	if hasIntent(m, IntentWhatToEat) {
		return Reply{
			Response:          "🤔 কি খাবেন বুঝতে পারছেন না?\n\n✨ আমাদের কিছু সুপারিশ দেখুন:",
			RecommendedDishes: l.cards(l.randomItems(8)),
			SuggestedItems:    []string{"🏆 সবচেয়ে বিক্রি হয়", "🍗 চিকেন ডিশ", "🥬 ভেজ ডিশ"},
			ActionType:        ActionRecommendation,
		}, true
	}

	// Price queries resolve to a specific item, so they outrank the
	// broader attribute filter ("butter chicken dam koto" is a price
	// question, not a request for the chicken list).
	if hasIntent(m, IntentPrice) {
		if item, ok := l.resolver.Resolve(m); ok {
			return l.itemInfo(item), true
		}
	}

	if reply, ok := l.tryAttributeFilter(m); ok {
		return reply, true
	}

	if hasIntent(m, IntentTodaySpecial) {
		return Reply{
			Response:          "✨ আজকের স্পেশাল এবং জনপ্রিয় আইটেম:\n\n🔥 এগুলো সবচেয়ে বেশি অর্ডার হচ্ছে!",
			RecommendedDishes: l.cards(l.catalog.TopByRatings(8)),
			ActionType:        ActionRecommendation,
		}, true
	}

	if hasIntent(m, IntentLocation) {
		return Reply{
			Response: fmt.Sprintf("📍 **আমাদের ঠিকানা:**\n%s\n\n🗺️ Google Maps এ **\"%s Rampurhat\"** সার্চ করুন!\n\n🚗 NH-14 এ Rampurhat যাওয়ার পথে, Gurukulpara এর কাছে।",
				l.info.Address, l.info.Name),
			ActionType: ActionLocation,
		}, true
	}

	if hasIntent(m, IntentHours) {
		return Reply{
			Response: fmt.Sprintf("🕐 **সময়সূচী:**\n%s\n\n📅 সপ্তাহের ৭ দিনই খোলা!\n☕ সকালে চা-নাস্তা, দুপুরে-রাতে সব ধরনের খাবার পাবেন।",
				l.info.HoursBengali),
			ActionType: ActionHours,
		}, true
	}

	if hasIntent(m, IntentContact) {
		return Reply{
			Response: fmt.Sprintf("📞 **যোগাযোগ করুন:**\n\n📱 ফোন: %s\n💬 WhatsApp: wa.me/%s\n\n🍽️ অর্ডার বা রিজার্ভেশনের জন্য কল করুন!",
				l.info.Phone, l.info.WhatsApp),
			ActionType: ActionContact,
		}, true
	}

	if hasIntent(m, IntentQuick) {
		return Reply{
			Response:          "⚡ **তাড়াতাড়ি পেতে চান?**\n\nএই আইটেমগুলো দ্রুত সার্ভ করা হয়:",
			RecommendedDishes: l.cards(l.catalog.QuickServe(12)),
			ActionType:        ActionRecommendation,
		}, true
	}

	if hasIntent(m, IntentPremium) {
		return Reply{
			Response:          "👑 **প্রিমিয়াম সেকশন:**\n\nআমাদের সেরা মানের এবং স্পেশাল ডিশ:",
			RecommendedDishes: l.cards(l.catalog.Premium(premiumFloor, 12)),
			ActionType:        ActionRecommendation,
		}, true
	}

	category, hasCategory := MatchCategory(m)
	listingWords := []string{"কি", "ki", "কী", "show", "দেখাও", "list", "menu", "মেনু", "আছে", "ache", "দেখান", "দিন"}
	if hasCategory && hasKeyword(m, listingWords) {
		if cat, ok := l.catalog.Category(category); ok {
			return Reply{
				Response: fmt.Sprintf("🍽️ **%s** (%dটি আইটেম):\n\nসব %s দেখুন নিচে 👇",
					cat.Name, len(cat.Items), cat.Name),
				RecommendedDishes: l.cards(truncateItems(cat.Items, 15)),
				ActionType:        ActionGeneral,
			}, true
		}
	}

	if hasIntent(m, IntentPopular) {
		return Reply{
			Response:          "🏆 **সবচেয়ে জনপ্রিয় খাবার!**\n\n🔥 এগুলো সবাই খায়, আপনিও ট্রাই করুন:",
			RecommendedDishes: l.cards(l.catalog.TopByRatings(12)),
			ActionType:        ActionRecommendation,
		}, true
	}

	if hasIntent(m, IntentCheap) {
		ceiling := ExtractPriceCeiling(m, defaultBudgetCeiling)
		items := l.catalog.Budget(ceiling, 15)
		if len(items) > 0 {
			return Reply{
				Response: fmt.Sprintf("💰 **বাজেট মেনু (₹%.0f এর নিচে):**\n\n🤑 সস্তায় মজা! কম খরচে ভালো খাবার:",
					ceiling),
				RecommendedDishes: l.cards(truncateItems(items, 12)),
				ActionType:        ActionRecommendation,
			}, true
		}
	}

	// A bare dish name ("butter chicken") gets an info card.
	if item, ok := l.resolver.Resolve(m); ok && len(strings.Fields(m)) <= 3 {
		return l.itemInfo(item), true
	}

	if hasCategory {
		if cat, ok := l.catalog.Category(category); ok {
			return Reply{
				Response: fmt.Sprintf("🍽️ **%s:**\n\nবেছে নিন আপনার পছন্দের %s:",
					cat.Name, cat.Name),
				RecommendedDishes: l.cards(truncateItems(cat.Items, 12)),
				ActionType:        ActionRecommendation,
			}, true
		}
	}

	if hasIntent(m, IntentVariety) {
		return Reply{
			Response:          "আচ্ছা! 🤔 তাহলে, আপনি কি পছন্দ করেন এমন কিছু আলাদা খাবার দেখি!\n🔥",
			RecommendedDishes: l.cards(l.randomItems(8)),
			ActionType:        ActionRecommendation,
		}, true
	}

	return Reply{}, false
}

// tryAttributeFilter handles combined attribute queries like "spicy
// chicken" or "veg under 100".
func (l *LocalResponder) tryAttributeFilter(m string) (Reply, bool) {
	isVeg := hasToken(m, []string{"veg", "vegetarian", "niramish", "sobji", "ভেজ", "নিরামিষ"})
	isChicken := hasToken(m, []string{"chicken", "murgi", "mangsho", "চিকেন", "মুরগি"})
	isSpicy := hasToken(m, []string{"spicy", "jhal", "hot", "ঝাল"})
	isBudget := hasToken(m, []string{"cheap", "sosta", "budget", "under", "সস্তা"}) ||
		hasKeyword(m, []string{"kom dam", "কম দাম"})

	if !isVeg && !isChicken && !isSpicy && !isBudget {
		return Reply{}, false
	}

	nameHasAny := func(item menu.MenuItem, parts ...string) bool {
		name := strings.ToLower(item.Name)
		for _, p := range parts {
			if strings.Contains(name, p) {
				return true
			}
		}
		return false
	}

	items := l.catalog.Filter(func(item menu.MenuItem) bool {
		if isVeg && !nameHasAny(item, "paneer", "veg", "mushroom", "dal", "sabji") {
			return false
		}
		if isChicken && !nameHasAny(item, "chicken", "egg") {
			return false
		}
		if isSpicy && !nameHasAny(item, "chilli", "masala", "jhal", "kadai", "kasa") {
			return false
		}
		return true
	})

	if isBudget {
		ceiling := ExtractPriceCeiling(m, filterBudgetCeiling)
		var kept []menu.MenuItem
		for _, item := range items {
			if item.Price <= ceiling {
				kept = append(kept, item)
			}
		}
		items = kept
		sortByPriceAsc(items)
	} else {
		sortByRatingsDesc(items)
	}

	if len(items) == 0 {
		return Reply{}, false
	}

	var tags []string
	if isVeg {
		tags = append(tags, "Veg 🌱")
	}
	if isChicken {
		tags = append(tags, "Chicken 🍗")
	}
	if isSpicy {
		tags = append(tags, "Spicy 🌶️")
	}
	if isBudget {
		tags = append(tags, "Budget 💰")
	}

	return Reply{
		Response: fmt.Sprintf("🔍 আপনার পছন্দের **%s** খাবারগুলি এখানে আছে:",
			strings.Join(tags, " ")),
		RecommendedDishes: l.cards(truncateItems(items, 8)),
		SuggestedItems:    []string{"আর কিছু?", "🥤 Drinks", "🍚 Rice"},
		ActionType:        ActionRecommendation,
	}, true
}

func (l *LocalResponder) itemAdded(item menu.MenuItem, quantity int) Reply {
	line := CartLine{Name: item.Name, Price: item.Price, Quantity: quantity}
	return Reply{
		Response: fmt.Sprintf("✅ ঠিক আছে! **%dx %s** আপনার কার্টে যোগ করা হয়েছে।\n💰 মোট দাম: ₹%.0f",
			quantity, item.Name, item.Price*float64(quantity)),
		ActionType:     ActionItemAdded,
		CartItems:      []CartLine{line},
		SuggestedItems: []string{"আর কিছু লাগবে?", "🥤 ড্রিংকস", "dessert"},
	}
}

func (l *LocalResponder) itemInfo(item menu.MenuItem) Reply {
	return Reply{
		Response: fmt.Sprintf("🍛 **%s** %s\n💰 দাম: %s\n⭐ %.1f/5 (%d জন পছন্দ করেছে)\n\n📝 %s\n\n👉 অর্ডার করতে **\"এটা দাও\"** বলুন!",
			item.Name, spiceEmoji(item.Name), menu.FormatPrice(item), item.Rating, item.RatingsCount, item.Description),
		SuggestedDish:     item.Name,
		RecommendedDishes: l.cards([]menu.MenuItem{item}),
		ActionType:        ActionRecommendation,
	}
}

func (l *LocalResponder) showTotal(sess *session.Session) Reply {
	var b strings.Builder
	b.WriteString("📋 আপনার অর্ডার:\n")
	for _, line := range sess.Lines {
		fmt.Fprintf(&b, "• %dx %s - ₹%.0f\n", line.Quantity, line.ItemName, line.UnitPrice*float64(line.Quantity))
	}
	fmt.Fprintf(&b, "\nTotal: ₹%.0f\n\nAdd to Cart করবো?", sess.Total())
	return Reply{
		Response:   b.String(),
		ActionType: ActionShowTotal,
		CartItems:  sessionCartLines(sess),
		TotalPrice: sess.Total(),
	}
}

func (l *LocalResponder) confirmOrder(sess *session.Session) Reply {
	return Reply{
		Response:   "দারুণ! Cart এ add করা হচ্ছে! ✅",
		ActionType: ActionConfirmOrder,
		CartItems:  sessionCartLines(sess),
		TotalPrice: sess.Total(),
	}
}

func sessionCartLines(sess *session.Session) []CartLine {
	lines := make([]CartLine, 0, len(sess.Lines))
	for _, l := range sess.Lines {
		lines = append(lines, CartLine{Name: l.ItemName, Price: l.UnitPrice, Quantity: l.Quantity})
	}
	return lines
}

// cards converts catalog items into the card shape the UI renders.
func (l *LocalResponder) cards(items []menu.MenuItem) []RecommendedDish {
	out := make([]RecommendedDish, 0, len(items))
	for _, item := range items {
		out = append(out, RecommendedDish{
			Name:         item.Name,
			Price:        item.Price,
			Description:  item.Description,
			Rating:       item.Rating,
			RatingsCount: item.RatingsCount,
			Image:        l.catalog.ImageURL(item.Name),
		})
	}
	return out
}

var spicyNameParts = []string{"masala", "kadai", "kasa", "tikka", "chilli", "hot"}
var mildNameParts = []string{"butter", "korma", "malai", "cream"}

func spiceEmoji(name string) string {
	n := strings.ToLower(name)
	for _, p := range spicyNameParts {
		if strings.Contains(n, p) {
			return "🌶️"
		}
	}
	for _, p := range mildNameParts {
		if strings.Contains(n, p) {
			return "🧈"
		}
	}
	return ""
}

func truncateItems(items []menu.MenuItem, n int) []menu.MenuItem {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func sortByPriceAsc(items []menu.MenuItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Price < items[j].Price
	})
}

func sortByRatingsDesc(items []menu.MenuItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RatingsCount > items[j].RatingsCount
	})
}
