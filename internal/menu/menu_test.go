package menu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New([]MenuCategory{
		{Name: "Breakfast", Items: []MenuItem{
			{Name: "Luchi", Price: 10, Rating: 4.0, RatingsCount: 90},
			{Name: "Puri Sabji", Price: 40, Rating: 4.2, RatingsCount: 120},
		}},
		{Name: "Chicken Dishes", Items: []MenuItem{
			{Name: "Butter Chicken", Price: 200, OriginalPrice: 250, Rating: 4.5, RatingsCount: 320},
			{Name: "Kadai Chicken", Price: 180, Rating: 4.2, RatingsCount: 150},
		}},
		{Name: "Rice", Items: []MenuItem{
			{Name: "Chicken Biryani", Price: 160, OriginalPrice: 180, Rating: 4.6, RatingsCount: 450},
			{Name: "Jeera Rice", Price: 80, Rating: 4.0, RatingsCount: 60},
		}},
		{Name: "Tandoor & Breads", Items: []MenuItem{
			{Name: "Butter Naan", Price: 40, Rating: 4.3, RatingsCount: 210},
		}},
	}, map[string]string{"Butter Chicken": "https://img.example/bc.jpg"})
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadItems(t *testing.T) {
	_, err := New([]MenuCategory{
		{Name: "Rice", Items: []MenuItem{{Name: "Plain Rice", Price: 0}}},
	}, nil)
	assert.Error(t, err, "non-positive price must be rejected")

	_, err = New([]MenuCategory{
		{Name: "Rice", Items: []MenuItem{{Name: "Plain Rice", Price: 50, OriginalPrice: 40}}},
	}, nil)
	assert.Error(t, err, "original price below current price must be rejected")

	_, err = New([]MenuCategory{
		{Name: "Rice", Items: []MenuItem{
			{Name: "Plain Rice", Price: 50},
			{Name: "plain rice", Price: 60},
		}},
	}, nil)
	assert.Error(t, err, "duplicate names must be rejected case-insensitively")
}

func TestByName(t *testing.T) {
	c := fixtureCatalog(t)

	item, ok := c.ByName("butter chicken")
	require.True(t, ok)
	assert.Equal(t, "Butter Chicken", item.Name)
	assert.Equal(t, "Chicken Dishes", item.Category)

	item, ok = c.ByName("  BUTTER CHICKEN  ")
	require.True(t, ok)
	assert.Equal(t, 200.0, item.Price)

	_, ok = c.ByName("pizza")
	assert.False(t, ok)
}

func TestOfferAccounting(t *testing.T) {
	c := fixtureCatalog(t)

	bc, _ := c.ByName("Butter Chicken")
	assert.True(t, bc.HasOffer())
	assert.Equal(t, 20, bc.DiscountPercent())

	kadai, _ := c.ByName("Kadai Chicken")
	assert.False(t, kadai.HasOffer())
	assert.Equal(t, 0, kadai.DiscountPercent())
}

func TestFormatPrice(t *testing.T) {
	c := fixtureCatalog(t)

	bc, _ := c.ByName("Butter Chicken")
	formatted := FormatPrice(bc)
	assert.Contains(t, formatted, "₹200")
	assert.Contains(t, formatted, "₹250")
	assert.Contains(t, formatted, "20%")

	kadai, _ := c.ByName("Kadai Chicken")
	assert.Equal(t, "₹180", FormatPrice(kadai))
}

func TestBudgetSortsCheapestFirst(t *testing.T) {
	c := fixtureCatalog(t)

	items := c.Budget(100, 10)
	require.Len(t, items, 4)
	assert.Equal(t, "Luchi", items[0].Name)
	prev := 0.0
	for _, item := range items {
		assert.GreaterOrEqual(t, item.Price, prev)
		assert.LessOrEqual(t, item.Price, 100.0)
		prev = item.Price
	}

	assert.Len(t, c.Budget(100, 2), 2)
}

func TestBudgetCeilingBoundary(t *testing.T) {
	c, err := New([]MenuCategory{
		{Name: "Rice", Items: []MenuItem{
			{Name: "A", Price: 40},
			{Name: "B", Price: 80},
			{Name: "C", Price: 120},
			{Name: "D", Price: 200},
		}},
	}, nil)
	require.NoError(t, err)

	items := c.Budget(100, 10)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "B", items[1].Name)
}

func TestPremium(t *testing.T) {
	c := fixtureCatalog(t)

	items := c.Premium(160, 10)
	require.Len(t, items, 3)
	assert.Equal(t, "Butter Chicken", items[0].Name)
	assert.Equal(t, "Chicken Biryani", items[2].Name)
}

func TestTopByRatingsIsStableOnTies(t *testing.T) {
	c, err := New([]MenuCategory{
		{Name: "Rice", Items: []MenuItem{
			{Name: "First", Price: 10, RatingsCount: 100},
			{Name: "Second", Price: 20, RatingsCount: 100},
			{Name: "Third", Price: 30, RatingsCount: 200},
		}},
	}, nil)
	require.NoError(t, err)

	top := c.TopByRatings(3)
	assert.Equal(t, "Third", top[0].Name)
	assert.Equal(t, "First", top[1].Name, "ties keep catalog order")
	assert.Equal(t, "Second", top[2].Name)
}

func TestQuickServe(t *testing.T) {
	c := fixtureCatalog(t)

	items := c.QuickServe(10)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "Breakfast", item.Category)
	}
}

func TestRandomIsDeterministicWithSeed(t *testing.T) {
	c := fixtureCatalog(t)

	a := c.Random(3, rand.New(rand.NewSource(7)))
	b := c.Random(3, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
	assert.Len(t, a, 3)
}

func TestImageURL(t *testing.T) {
	c := fixtureCatalog(t)

	assert.Equal(t, "https://img.example/bc.jpg", c.ImageURL("butter chicken"))
	assert.Empty(t, c.ImageURL("Luchi"))
}

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Greater(t, c.Len(), 30)

	bc, ok := c.ByName("Butter Chicken")
	require.True(t, ok)
	assert.Equal(t, 200.0, bc.Price)
}
