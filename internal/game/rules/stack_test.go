package rules

import "testing"

func TestStackPopsInReadingOrder(t *testing.T) {
	s := NewStack([]string{"first", "second", "third"})

	if s.IsEmpty() {
		t.Fatal("expected 3 items")
	}
	for _, want := range []string{"first", "second", "third"} {
		got, ok := s.Pop()
		if !ok {
			t.Fatalf("expected %s, stack was empty", want)
		}
		if got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
	if !s.IsEmpty() {
		t.Fatalf("expected empty stack")
	}
	if _, ok := s.Pop(); ok {
		t.Fatalf("pop on empty stack should report !ok")
	}
}

func TestStackPushIsLIFO(t *testing.T) {
	s := NewStack[int](nil)
	s.Push(1)
	s.Push(2)

	got, _ := s.Pop()
	if got != 2 {
		t.Fatalf("expected LIFO order (2), got %d", got)
	}
	got, _ = s.Pop()
	if got != 1 || !s.IsEmpty() {
		t.Fatalf("expected 1 then empty, got %d", got)
	}
}

func TestStackPushInOrderRunsAheadOfExisting(t *testing.T) {
	s := NewStack([]string{"later"})
	s.PushInOrder([]string{"a", "b"})

	var order []string
	for !s.IsEmpty() {
		item, _ := s.Pop()
		order = append(order, item)
	}
	want := []string{"a", "b", "later"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}
