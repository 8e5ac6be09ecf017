package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/menu"
)

func fixtureCatalog(t *testing.T) *menu.Catalog {
	t.Helper()
	c, err := menu.New([]menu.MenuCategory{
		{Name: "Breakfast", Items: []menu.MenuItem{
			{Name: "Luchi", Price: 10, Rating: 4.0, RatingsCount: 90},
			{Name: "Puri Sabji", Price: 40, Description: "Fluffy puri with aloo sabji", Rating: 4.2, RatingsCount: 120},
		}},
		{Name: "Chicken Dishes", Items: []menu.MenuItem{
			{Name: "Butter Chicken", Price: 200, OriginalPrice: 250, Description: "Creamy tomato gravy", Rating: 4.5, RatingsCount: 320},
			{Name: "Kadai Chicken", Price: 180, Description: "Spicy kadai masala", Rating: 4.2, RatingsCount: 150},
		}},
		{Name: "Rice", Items: []menu.MenuItem{
			{Name: "Chicken Biryani", Price: 160, OriginalPrice: 180, Description: "Fragrant basmati with chicken", Rating: 4.6, RatingsCount: 450},
			{Name: "Jeera Rice", Price: 80, Rating: 4.0, RatingsCount: 60},
		}},
		{Name: "Tandoor & Breads", Items: []menu.MenuItem{
			{Name: "Butter Naan", Price: 40, Description: "Soft naan brushed with butter", Rating: 4.3, RatingsCount: 210},
		}},
	}, nil)
	require.NoError(t, err)
	return c
}

func TestResolveExactName(t *testing.T) {
	r := NewResolver(fixtureCatalog(t))

	item, ok := r.Resolve("Butter Chicken")
	require.True(t, ok)
	assert.Equal(t, "Butter Chicken", item.Name)

	item, ok = r.Resolve("  bUtTeR cHiCkEn ")
	require.True(t, ok)
	assert.Equal(t, "Butter Chicken", item.Name)
}

func TestResolveTolerantOfTypos(t *testing.T) {
	r := NewResolver(fixtureCatalog(t))

	tests := []struct {
		query string
		want  string
	}{
		{"buter chiken", "Butter Chicken"},
		{"biryani", "Chicken Biryani"},
		{"biriyani", "Chicken Biryani"},
		{"butter nan", "Butter Naan"},
	}
	for _, tt := range tests {
		item, ok := r.Resolve(tt.query)
		require.True(t, ok, "query %q", tt.query)
		assert.Equal(t, tt.want, item.Name, "query %q", tt.query)
	}
}

func TestResolveInsideSentence(t *testing.T) {
	r := NewResolver(fixtureCatalog(t))

	item, ok := r.Resolve("ekta butter chicken dao please")
	require.True(t, ok)
	assert.Equal(t, "Butter Chicken", item.Name)

	item, ok = r.Resolve("amake jeera rice deo")
	require.True(t, ok)
	assert.Equal(t, "Jeera Rice", item.Name)
}

func TestResolveRejectsWeakMatches(t *testing.T) {
	r := NewResolver(fixtureCatalog(t))

	for _, query := range []string{"pizza", "burger dao", "xyzzy", ""} {
		_, ok := r.Resolve(query)
		assert.False(t, ok, "query %q should not match", query)
	}
}

func TestResolveIsIdempotentOnItemNames(t *testing.T) {
	catalog := fixtureCatalog(t)
	r := NewResolver(catalog)

	for _, item := range catalog.Items() {
		got, ok := r.Resolve(item.Name)
		require.True(t, ok, "item %q must resolve to itself", item.Name)
		assert.Equal(t, item.Name, got.Name)
	}
}
