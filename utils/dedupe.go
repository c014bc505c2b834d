package utils

// Seen is a set of keys already encountered. It is not safe for concurrent use.
type Seen[K comparable] map[K]struct{}

// Add records k and reports whether it was new
func (s Seen[K]) Add(k K) bool {
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

// Unique returns items with later duplicates dropped, keeping first-seen
// order. key reports an item's identity; items for which it returns false
// have no identity and are always kept. The input is not modified.
func Unique[T any, K comparable](items []T, key func(T) (K, bool)) (out []T, dropped int) {
	seen := make(Seen[K], len(items))
	out = make([]T, 0, len(items))
	for _, item := range items {
		if k, ok := key(item); ok && !seen.Add(k) {
			dropped++
			continue
		}
		out = append(out, item)
	}
	return out, dropped
}
