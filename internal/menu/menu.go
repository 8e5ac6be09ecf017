package menu

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MenuItem represents a single dish on the menu.
type MenuItem struct {
	Name          string  `yaml:"name" json:"name"`
	Price         float64 `yaml:"price" json:"price"`
	OriginalPrice float64 `yaml:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Description   string  `yaml:"description" json:"description"`
	Rating        float64 `yaml:"rating" json:"rating"`
	RatingsCount  int     `yaml:"ratingsCount" json:"ratingsCount"`
	Category      string  `yaml:"-" json:"category"`
}

// HasOffer reports whether the item is currently discounted.
func (mi MenuItem) HasOffer() bool {
	return mi.OriginalPrice > mi.Price && mi.OriginalPrice > 0
}

// DiscountPercent returns the rounded discount percentage, or 0 when
// the item carries no offer.
func (mi MenuItem) DiscountPercent() int {
	if !mi.HasOffer() {
		return 0
	}
	return int(math.Round((mi.OriginalPrice - mi.Price) / mi.OriginalPrice * 100))
}

// MenuCategory groups items in display order.
type MenuCategory struct {
	Name  string     `yaml:"name" json:"name"`
	Items []MenuItem `yaml:"items" json:"items"`
}

// Catalog is the immutable, in-memory menu. It is constructed once at
// startup and injected wherever menu access is needed; tests build
// fixture catalogs the same way.
type Catalog struct {
	categories []MenuCategory
	items      []MenuItem
	byName     map[string]MenuItem
	images     map[string]string
}

type catalogFile struct {
	Categories []MenuCategory    `yaml:"categories"`
	Images     map[string]string `yaml:"images"`
}

// Load parses a YAML catalog asset into a Catalog.
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse menu data: %w", err)
	}
	return New(f.Categories, f.Images)
}

// New builds a Catalog from categories and a name→image lookup table.
func New(categories []MenuCategory, images map[string]string) (*Catalog, error) {
	c := &Catalog{
		categories: categories,
		byName:     make(map[string]MenuItem),
		images:     make(map[string]string, len(images)),
	}
	for ci := range c.categories {
		cat := &c.categories[ci]
		for ii := range cat.Items {
			item := &cat.Items[ii]
			if item.Name == "" {
				return nil, fmt.Errorf("category %q contains an unnamed item", cat.Name)
			}
			if item.Price <= 0 {
				return nil, fmt.Errorf("item %q has non-positive price", item.Name)
			}
			if item.OriginalPrice != 0 && item.OriginalPrice <= item.Price {
				return nil, fmt.Errorf("item %q has original price not above current price", item.Name)
			}
			item.Category = cat.Name
			key := strings.ToLower(item.Name)
			if _, dup := c.byName[key]; dup {
				return nil, fmt.Errorf("duplicate item name %q", item.Name)
			}
			c.byName[key] = *item
			c.items = append(c.items, *item)
		}
	}
	for name, url := range images {
		c.images[strings.ToLower(name)] = url
	}
	return c, nil
}

// Categories returns the categories in display order.
func (c *Catalog) Categories() []MenuCategory {
	return c.categories
}

// Items returns every item in catalog order.
func (c *Catalog) Items() []MenuItem {
	return c.items
}

// Len returns the total item count.
func (c *Catalog) Len() int {
	return len(c.items)
}

// ByName looks up an item by exact name, case-insensitively.
func (c *Catalog) ByName(name string) (MenuItem, bool) {
	item, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return item, ok
}

// Category returns the named category.
func (c *Catalog) Category(name string) (MenuCategory, bool) {
	for _, cat := range c.categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return MenuCategory{}, false
}

// ImageURL returns the photo URL for a dish, if one is known.
func (c *Catalog) ImageURL(name string) string {
	return c.images[strings.ToLower(name)]
}

// TopByRatings returns the n most-reviewed items. The sort is stable
// and descending by ratings count, so ties keep catalog order.
func (c *Catalog) TopByRatings(n int) []MenuItem {
	out := append([]MenuItem(nil), c.items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RatingsCount > out[j].RatingsCount
	})
	return truncate(out, n)
}

// Budget returns items priced at or below maxPrice, cheapest first,
// capped at limit.
func (c *Catalog) Budget(maxPrice float64, limit int) []MenuItem {
	var out []MenuItem
	for _, item := range c.items {
		if item.Price <= maxPrice {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price < out[j].Price
	})
	return truncate(out, limit)
}

// Premium returns items priced at or above minPrice, most expensive
// first, capped at limit.
func (c *Catalog) Premium(minPrice float64, limit int) []MenuItem {
	var out []MenuItem
	for _, item := range c.items {
		if item.Price >= minPrice {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price > out[j].Price
	})
	return truncate(out, limit)
}

// quickServeCategories are served fast enough to advertise as such.
var quickServeCategories = []string{"Rolls", "Breakfast", "Noodles"}

// QuickServe returns items from the fast-serve categories.
func (c *Catalog) QuickServe(limit int) []MenuItem {
	var out []MenuItem
	for _, cat := range c.categories {
		for _, quick := range quickServeCategories {
			if cat.Name == quick {
				out = append(out, cat.Items...)
			}
		}
	}
	return truncate(out, limit)
}

// Random returns n items in shuffled order, for variety suggestions.
func (c *Catalog) Random(n int, rng *rand.Rand) []MenuItem {
	out := append([]MenuItem(nil), c.items...)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return truncate(out, n)
}

// Filter returns the items matching pred, in catalog order.
func (c *Catalog) Filter(pred func(MenuItem) bool) []MenuItem {
	var out []MenuItem
	for _, item := range c.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// FormatPrice renders an item price for chat replies, including the
// discount percentage when an offer is active.
func FormatPrice(item MenuItem) string {
	if item.HasOffer() {
		return fmt.Sprintf("₹%s (ছিল ₹%s, %d%% ছাড়! 🎉)",
			formatAmount(item.Price), formatAmount(item.OriginalPrice), item.DiscountPercent())
	}
	return "₹" + formatAmount(item.Price)
}

func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(items []MenuItem, n int) []MenuItem {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
