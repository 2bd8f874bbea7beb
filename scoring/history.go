package scoring

// PushHistory appends snap and keeps only the most recent MaxHistory entries.
// The returned slice never aliases the dropped prefix.
func PushHistory[T any](history []T, snap T) []T {
	history = append(history, snap)
	if len(history) > MaxHistory {
		trimmed := make([]T, MaxHistory)
		copy(trimmed, history[len(history)-MaxHistory:])
		return trimmed
	}
	return history
}

// popHistory returns the last snapshot and the shortened stack.
func popHistory[T any](history []T) (T, []T, bool) {
	var zero T
	if len(history) == 0 {
		return zero, history, false
	}
	last := history[len(history)-1]
	rest := make([]T, len(history)-1)
	copy(rest, history[:len(history)-1])
	return last, rest, true
}

func cloneSets(sets []Pair) []Pair {
	out := make([]Pair, len(sets))
	copy(out, sets)
	return out
}
