package sink

// Counter counts occurrences of each key into a map.
type Counter[K comparable] struct{}

// Open returns an empty count map.
func (Counter[K]) Open() map[K]int { return make(map[K]int) }

// Add increments the count for key. A nil map is allocated on first use.
func (Counter[K]) Add(counts map[K]int, key K) (map[K]int, error) {
	if counts == nil {
		counts = make(map[K]int)
	}
	counts[key]++
	return counts, nil
}
