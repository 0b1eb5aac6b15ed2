// Package dice provides the randomness abstraction used by exploring
// action selectors.
package dice

// Source is the randomness provider for action selection.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Percent rolls a percentile die and reports whether the result is at or
// under chance. chance <= 0 never succeeds; chance >= 100 always does.
//
// Precondition: src must be non-nil.
func Percent(src Source, chance int) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return src.Intn(100)+1 <= chance
}

// Pick returns a uniformly chosen element of items.
//
// Precondition: len(items) > 0; panics otherwise.
func Pick[T any](src Source, items []T) T {
	if len(items) == 0 {
		panic("dice: Pick called with no items")
	}
	return items[src.Intn(len(items))]
}
