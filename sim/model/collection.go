package model

// Collection is an id-keyed set of elements of one kind that remembers
// insertion order. Re-adding an existing id replaces the element in place.
type Collection[T Element] struct {
	order []string
	byID  map[string]T
}

// NewCollection returns an empty collection.
func NewCollection[T Element]() *Collection[T] {
	return &Collection[T]{byID: make(map[string]T)}
}

// Add inserts e, or replaces the element with the same id keeping its position.
func (c *Collection[T]) Add(e T) {
	id := e.ElementID()
	if _, exists := c.byID[id]; !exists {
		c.order = append(c.order, id)
	}
	c.byID[id] = e
}

// Get returns the element with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Has reports whether id is present.
func (c *Collection[T]) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Remove deletes the element with the given id. Returns false if absent.
func (c *Collection[T]) Remove(id string) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns the elements in insertion order.
func (c *Collection[T]) All() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// IDs returns the element ids in insertion order.
func (c *Collection[T]) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of elements.
func (c *Collection[T]) Len() int {
	return len(c.order)
}

// Clear removes every element.
func (c *Collection[T]) Clear() {
	c.order = nil
	c.byID = make(map[string]T)
}
