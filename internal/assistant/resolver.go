package assistant

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"atithi/internal/menu"
)

const (
	// fuzzyThreshold is the normalized edit-distance score below which a
	// match is accepted. 0 is a perfect match, 1 matches anything, so
	// weak matches are rejected rather than guessed at.
	fuzzyThreshold = 0.4
	// minSubstringQuery guards the substring stage against very short
	// queries like "tea" accidentally matching inside unrelated names.
	minSubstringQuery = 4
)

// Resolver maps free text to a specific catalog item.
type Resolver struct {
	catalog *menu.Catalog
}

// NewResolver builds a resolver over the given catalog.
func NewResolver(catalog *menu.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve finds the catalog item a query refers to. Matching stages run
// in order, first success wins: exact name, bounded edit-distance
// against name and description, then substring containment in either
// direction. Returns false when nothing matches confidently enough.
func (r *Resolver) Resolve(query string) (menu.MenuItem, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return menu.MenuItem{}, false
	}

	if item, ok := r.catalog.ByName(q); ok {
		return item, true
	}

	if item, ok := r.resolveApproximate(q); ok {
		return item, true
	}

	if len([]rune(q)) >= minSubstringQuery {
		for _, item := range r.catalog.Items() {
			name := strings.ToLower(item.Name)
			if strings.Contains(q, name) || strings.Contains(name, q) {
				return item, true
			}
		}
	}

	return menu.MenuItem{}, false
}

// resolveApproximate scores every item by normalized edit distance and
// accepts the best one only when it clears the confidence threshold.
func (r *Resolver) resolveApproximate(q string) (menu.MenuItem, bool) {
	queryTokens := strings.Fields(q)
	best := menu.MenuItem{}
	bestScore := 1.0

	for _, item := range r.catalog.Items() {
		score := scoreAgainstName(q, queryTokens, strings.ToLower(item.Name))
		if descScore := scoreAgainstDescription(queryTokens, item.Description); descScore < score {
			score = descScore
		}
		if score < bestScore {
			bestScore = score
			best = item
		}
	}

	if bestScore < fuzzyThreshold {
		return best, true
	}
	return menu.MenuItem{}, false
}

// scoreAgainstName compares the whole query and every token window of a
// similar length to the item name, returning the best score. Single
// query tokens are also scored against single name tokens, with a
// penalty, so "biriyani" still finds "Chicken Biryani".
func scoreAgainstName(q string, queryTokens []string, name string) float64 {
	score := normalizedDistance(q, name)
	nameTokens := strings.Fields(name)
	for _, width := range []int{len(nameTokens) - 1, len(nameTokens), len(nameTokens) + 1} {
		if width < 1 {
			continue
		}
		for start := 0; start+width <= len(queryTokens); start++ {
			window := strings.Join(queryTokens[start:start+width], " ")
			if s := normalizedDistance(window, name); s < score {
				score = s
			}
		}
	}

	const tokenPenalty = 0.15
	for _, nt := range nameTokens {
		for _, qt := range queryTokens {
			if len([]rune(qt)) < minSubstringQuery {
				continue
			}
			if s := normalizedDistance(qt, nt) + tokenPenalty; s < score {
				score = s
			}
		}
	}
	return score
}

// scoreAgainstDescription compares single query tokens against single
// description tokens. Descriptions only ever produce weak evidence, so
// a small penalty keeps them from outranking a decent name match.
func scoreAgainstDescription(queryTokens []string, description string) float64 {
	const penalty = 0.1
	score := 1.0
	for _, dt := range strings.Fields(strings.ToLower(description)) {
		for _, qt := range queryTokens {
			if len(qt) < minSubstringQuery {
				continue
			}
			if s := normalizedDistance(qt, dt) + penalty; s < score {
				score = s
			}
		}
	}
	return score
}

func normalizedDistance(a, b string) float64 {
	if a == b {
		return 0
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}
