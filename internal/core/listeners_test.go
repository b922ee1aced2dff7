package core

import "testing"

func TestListeners(t *testing.T) {
	var l Listeners[int]
	var got []int

	unA := l.Add(func(v int) { got = append(got, v) })
	l.Add(func(v int) { got = append(got, v*10) })
	l.Add(nil)()

	l.Emit(1)
	if len(got) != 2 || got[0] != 1 || got[1] != 10 {
		t.Fatalf("Emit(1) produced %v, expected [1 10]", got)
	}

	unA()
	unA()
	l.Emit(2)
	if len(got) != 3 || got[2] != 20 {
		t.Errorf("after unsubscribe got %v, expected [1 10 20]", got)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", l.Len())
	}
}

func TestListenersSelfUnsubscribe(t *testing.T) {
	var l Listeners[string]
	calls := 0

	var un Unsubscribe
	un = l.Add(func(string) {
		calls++
		un()
	})

	l.Emit("a")
	l.Emit("b")
	if calls != 1 {
		t.Errorf("self-removing listener called %d times, expected 1", calls)
	}
}
