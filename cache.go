package crate

var _ Cache[string, any] = &SimpleCache[string, any]{}

// SimpleCache is an append-only keyed store that hands out dense indices.
type SimpleCache[K comparable, T any] struct {
	items       []T
	itemIndices map[K]int
	maxCapacity int
}

func (c *SimpleCache[K, T]) GetIndex(key K) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[K, T]) GetItem(index int) *T {
	return &c.items[index]
}

func (c *SimpleCache[K, T]) GetItem32(index uint32) *T {
	return &c.items[index]
}

func (c *SimpleCache[K, T]) Len() int {
	return len(c.items)
}

func (c *SimpleCache[K, T]) Register(key K, item T) (int, error) {
	if len(c.items) >= c.maxCapacity {
		return -1, CacheCapacityError{Capacity: c.maxCapacity}
	}
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx, nil
}

func (c *SimpleCache[K, T]) Clear() {
	clear(c.items)
	c.items = c.items[:0]
	clear(c.itemIndices)
}
