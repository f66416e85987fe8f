package rules

// Stack is a LIFO work-list. The top is the last element.
type Stack[T any] struct {
	items []T
}

// NewStack creates a stack whose first Pop returns items[0]: the input is
// pushed in reverse so that reading order is preserved.
func NewStack[T any](items []T) *Stack[T] {
	s := &Stack[T]{items: make([]T, 0, len(items)+8)}
	s.PushInOrder(items)
	return s
}

// Push adds an item to the top of the stack.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// PushInOrder pushes items so that they pop in their original order, ahead
// of anything already on the stack.
func (s *Stack[T]) PushInOrder(items []T) {
	for i := len(items) - 1; i >= 0; i-- {
		s.items = append(s.items, items[i])
	}
}

// Pop removes the top item. ok is false when the stack is empty.
func (s *Stack[T]) Pop() (item T, ok bool) {
	if len(s.items) == 0 {
		return item, false
	}
	idx := len(s.items) - 1
	item = s.items[idx]
	s.items = s.items[:idx]
	return item, true
}

func (s *Stack[T]) IsEmpty() bool { return len(s.items) == 0 }
