// Package peek provides a LIFO stack whose elements can be inspected from the
// top down through a separate read-only cursor.
package peek

// Stack is a last-in-first-out sequence. Only the owner mutates it; readers
// walk it through a Cursor.
type Stack[T any] struct {
	items []T
}

// Push appends v at the top of the stack.
func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top element.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	v := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return v, true
}

// Len returns the number of elements on the stack.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Last returns the top element without moving any cursor.
func (s *Stack[T]) Last() (T, bool) {
	return s.at(0)
}

// Cursor returns a new cursor positioned at the top of the stack.
func (s *Stack[T]) Cursor() *Cursor[T] {
	return &Cursor[T]{stack: s}
}

// at returns the element depth positions below the top.
func (s *Stack[T]) at(depth int) (T, bool) {
	var zero T
	if depth < 0 || depth >= len(s.items) {
		return zero, false
	}
	return s.items[len(s.items)-1-depth], true
}

// Cursor looks at progressively deeper elements of a stack. Every call to
// Peek moves one frame further from the top until Reset is called.
type Cursor[T any] struct {
	stack *Stack[T]
	depth int
}

// Peek returns the element at the current depth and advances the cursor.
// Once the cursor has passed the bottom of the stack it keeps returning false.
func (c *Cursor[T]) Peek() (T, bool) {
	v, ok := c.stack.at(c.depth)
	c.depth++
	return v, ok
}

// Reset moves the cursor back to the top of the stack.
func (c *Cursor[T]) Reset() {
	c.depth = 0
}

// Depth reports how many times Peek has been called since the last Reset.
func (c *Cursor[T]) Depth() int {
	return c.depth
}
