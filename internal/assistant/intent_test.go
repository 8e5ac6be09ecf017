package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		message string
		want    int
	}{
		{"Ekta Luchi dao", 1},
		{"duita butter naan lagbe", 2},
		{"2ta naan deo", 2},
		{"৩টা রুটি দাও", 3},
		{"two chicken rolls please", 2},
		{"butter chicken dao", 1},
		{"100 naan dao", 1}, // over the sanity cap, falls back
		{"", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractQuantity(tt.message), "message %q", tt.message)
	}
}

func TestIsNegatedMatchesWholeTokensOnly(t *testing.T) {
	assert.True(t, IsNegated("chicken roll dao na"))
	assert.True(t, IsNegated("don't add chicken"))
	assert.True(t, IsNegated("cancel the order"))

	// "na" is a fragment of "naan"; substring matching would break this.
	assert.False(t, IsNegated("butter naan dao"))
	assert.False(t, IsNegated("nasta ki ache"))
}

func TestIsConfirmation(t *testing.T) {
	assert.True(t, IsConfirmation("ha"))
	assert.True(t, IsConfirmation("ok!"))
	assert.True(t, IsConfirmation("হ্যাঁ"))
	assert.True(t, IsConfirmation("yes, checkout"))

	// "ok" inside a word must not confirm.
	assert.False(t, IsConfirmation("pakora"))
	assert.False(t, IsConfirmation("butter chicken"))
}

func TestIsGreeting(t *testing.T) {
	assert.True(t, IsGreeting("hi"))
	assert.True(t, IsGreeting("hello!"))
	assert.True(t, IsGreeting("নমস্কার"))
	assert.True(t, IsGreeting("good morning"))

	// "hi" hides inside "chicken"; token matching keeps this false.
	assert.False(t, IsGreeting("chicken"))
	assert.False(t, IsGreeting("hello, also where are you located"))
}

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"chicken ki ache", "Chicken Dishes"},
		{"মাটন আছে?", "Mutton Dishes"},
		{"biryani dekhao", "Rice"},
		{"naan roti", "Tandoor & Breads"},
		{"নাস্তা কি আছে", "Breakfast"},
	}
	for _, tt := range tests {
		got, ok := MatchCategory(tt.message)
		assert.True(t, ok, "message %q", tt.message)
		assert.Equal(t, tt.want, got, "message %q", tt.message)
	}

	_, ok := MatchCategory("where are you located")
	assert.False(t, ok)
}

func TestExtractPriceCeiling(t *testing.T) {
	assert.Equal(t, 150.0, ExtractPriceCeiling("150 er niche ki ache", 100))
	assert.Equal(t, 80.0, ExtractPriceCeiling("under 80", 100))
	assert.Equal(t, 100.0, ExtractPriceCeiling("sosta khabar dekhao", 100))
	assert.Equal(t, 50.0, ExtractPriceCeiling("৫০ টাকার মধ্যে", 100))
}

func TestHasIntent(t *testing.T) {
	assert.True(t, hasIntent("butter chicken dao", IntentOrder))
	assert.True(t, hasIntent("total koto holo", IntentShowTotal))
	assert.True(t, hasIntent("tomra kothay", IntentLocation))
	assert.True(t, hasIntent("kokhon khola", IntentHours))
	assert.False(t, hasIntent("butter naan", IntentOrder))
}
