package assistant

import (
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atithi/internal/session"
)

func fixtureResponder(t *testing.T) *LocalResponder {
	t.Helper()
	return NewLocalResponder(fixtureCatalog(t), DefaultRestaurantInfo()).
		WithRand(rand.New(rand.NewSource(1)))
}

func TestTryRespondOrdersKnownItem(t *testing.T) {
	l := fixtureResponder(t)

	reply, handled := l.TryRespond("Butter Chicken dao", session.New("s1"))
	require.True(t, handled)
	assert.Equal(t, ActionItemAdded, reply.ActionType)
	require.Len(t, reply.CartItems, 1)
	assert.Equal(t, "Butter Chicken", reply.CartItems[0].Name)
	assert.Equal(t, 200.0, reply.CartItems[0].Price)
	assert.Equal(t, 1, reply.CartItems[0].Quantity)
}

func TestTryRespondOrdersInBengali(t *testing.T) {
	l := fixtureResponder(t)

	reply, handled := l.TryRespond("Butter Chicken দাও", session.New("s1"))
	require.True(t, handled)
	assert.Equal(t, ActionItemAdded, reply.ActionType)
	require.Len(t, reply.CartItems, 1)
	assert.Equal(t, CartLine{Name: "Butter Chicken", Price: 200, Quantity: 1}, reply.CartItems[0])
}

func TestTryRespondOrdersWithQuantity(t *testing.T) {
	l := fixtureResponder(t)

	reply, handled := l.TryRespond("duita butter naan dao", session.New("s1"))
	require.True(t, handled)
	assert.Equal(t, ActionItemAdded, reply.ActionType)
	require.Len(t, reply.CartItems, 1)
	assert.Equal(t, "Butter Naan", reply.CartItems[0].Name)
	assert.Equal(t, 2, reply.CartItems[0].Quantity)
}

func TestTryRespondDefersNegatedOrders(t *testing.T) {
	l := fixtureResponder(t)

	_, handled := l.TryRespond("don't add butter chicken", session.New("s1"))
	assert.False(t, handled, "negated ordering must go to the remote path")

	_, handled = l.TryRespond("butter chicken dao na", session.New("s1"))
	assert.False(t, handled)
}

func TestTryRespondDefersLongOrderMessages(t *testing.T) {
	l := fixtureResponder(t)

	long := "butter chicken dao but only if it is not too spicy because last time it was way too hot for me"
	require.GreaterOrEqual(t, len(long), maxOrderMessageLen)
	_, handled := l.TryRespond(long, session.New("s1"))
	assert.False(t, handled, "compound sentences are left to the model")
}

func TestTryRespondShowsTotalOnlyWithItems(t *testing.T) {
	l := fixtureResponder(t)

	sess := session.New("s1")
	_, handled := l.TryRespond("total koto", sess)
	assert.False(t, handled, "empty cart has nothing to total")

	sess.AddLine("Butter Chicken", 200, 1)
	sess.AddLine("Butter Naan", 40, 2)
	require.NoError(t, sess.Apply(session.EventItemAdded))

	reply, handled := l.TryRespond("total koto", sess)
	require.True(t, handled)
	assert.Equal(t, ActionShowTotal, reply.ActionType)
	assert.Equal(t, 280.0, reply.TotalPrice)
	assert.Len(t, reply.CartItems, 2)

	reply, handled = l.TryRespond("Total দেখাও", sess)
	require.True(t, handled)
	assert.Equal(t, ActionShowTotal, reply.ActionType)
	assert.Equal(t, 280.0, reply.TotalPrice)
}

func TestTryRespondConfirmsOnlyAfterTotalShown(t *testing.T) {
	l := fixtureResponder(t)

	sess := session.New("s1")
	sess.AddLine("Butter Chicken", 200, 1)
	require.NoError(t, sess.Apply(session.EventItemAdded))

	_, handled := l.TryRespond("ha", sess)
	assert.False(t, handled, "a bare yes before the total is ambiguous")

	require.NoError(t, sess.Apply(session.EventShowTotal))
	reply, handled := l.TryRespond("ha", sess)
	require.True(t, handled)
	assert.Equal(t, ActionConfirmOrder, reply.ActionType)
	assert.Equal(t, 200.0, reply.TotalPrice)
}

func TestTryRespondGreeting(t *testing.T) {
	l := fixtureResponder(t)

	reply, handled := l.TryRespond("hi", nil)
	require.True(t, handled)
	assert.Equal(t, ActionGeneral, reply.ActionType)
	assert.NotEmpty(t, reply.SuggestedItems)

	// "chicken" contains "hi"; token matching must not greet here.
	reply, handled = l.TryRespond("chicken", nil)
	if handled {
		assert.NotContains(t, reply.Response, "নমস্কার")
	}
}

func TestTryRespondInfoRules(t *testing.T) {
	l := fixtureResponder(t)

	reply, handled := l.TryRespond("tomra kothay", nil)
	require.True(t, handled)
	assert.Equal(t, ActionLocation, reply.ActionType)
	assert.Contains(t, reply.Response, "Rampurhat")

	reply, handled = l.TryRespond("kokhon khola thake", nil)
	require.True(t, handled)
	assert.Equal(t, ActionHours, reply.ActionType)

	reply, handled = l.TryRespond("contact number ki", nil)
	require.True(t, handled)
	assert.Equal(t, ActionContact, reply.ActionType)
	assert.Contains(t, reply.Response, "7076445512")
}

func TestTryRespondPriceQuery(t *testing.T) {
	l := fixtureResponder(t)

	reply, handled := l.TryRespond("butter chicken dam koto", nil)
	require.True(t, handled)
	assert.Equal(t, ActionRecommendation, reply.ActionType)
	assert.Equal(t, "Butter Chicken", reply.SuggestedDish)
	assert.Contains(t, reply.Response, "₹200")
}

func TestTryRespondBudgetQuery(t *testing.T) {
	l := fixtureResponder(t)

	reply, handled := l.TryRespond("sosta ki ache", nil)
	require.True(t, handled)
	require.NotEmpty(t, reply.RecommendedDishes)
	for _, dish := range reply.RecommendedDishes {
		assert.LessOrEqual(t, dish.Price, 150.0)
	}
}

func TestTryRespondAttributeFilter(t *testing.T) {
	l := fixtureResponder(t)

	reply, handled := l.TryRespond("spicy chicken", nil)
	require.True(t, handled)
	require.NotEmpty(t, reply.RecommendedDishes)
	for _, dish := range reply.RecommendedDishes {
		name := strings.ToLower(dish.Name)
		assert.Contains(t, name, "chicken")
	}
}

func TestTryRespondConcurrentRecommendations(t *testing.T) {
	l := fixtureResponder(t)

	// One responder serves every HTTP and WebSocket turn, so the
	// randomized rules must tolerate parallel callers.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				reply, handled := l.TryRespond("hungry", session.New("s1"))
				assert.True(t, handled)
				assert.Equal(t, ActionRecommendation, reply.ActionType)
			}
		}()
	}
	wg.Wait()
}

func TestTryRespondCountsResolverMisses(t *testing.T) {
	misses := 0
	l := fixtureResponder(t).WithMissHook(func() { misses++ })

	_, handled := l.TryRespond("pizza dao", session.New("s1"))
	assert.False(t, handled)
	assert.Equal(t, 1, misses)

	_, handled = l.TryRespond("butter chicken dao", session.New("s1"))
	assert.True(t, handled)
	assert.Equal(t, 1, misses, "a resolved order is not a miss")
}

func TestTryRespondDefersUnknownMessages(t *testing.T) {
	l := fixtureResponder(t)

	for _, msg := range []string{
		"",
		"tell me your story",
		"what payment methods do you accept",
	} {
		_, handled := l.TryRespond(msg, session.New("s1"))
		assert.False(t, handled, "message %q must fall through to the model", msg)
	}
}
