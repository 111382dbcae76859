package vango

import (
	"sync"
	"testing"
)

type mockListener struct {
	id    uint64
	dirty int
}

func (m *mockListener) MarkDirty() { m.dirty++ }
func (m *mockListener) ID() uint64 { return m.id }

func TestSignalGetSubscribesListener(t *testing.T) {
	s := NewSignal(0)
	l := &mockListener{id: nextID()}

	WithListener(l, func() {
		_ = s.Get()
		_ = s.Get()
	})

	s.Set(1)
	if l.dirty != 1 {
		t.Errorf("dirty = %d, want 1", l.dirty)
	}

	s.Set(1)
	if l.dirty != 1 {
		t.Errorf("setting an equal value should not notify, dirty = %d", l.dirty)
	}

	s.Unsubscribe(l)
	s.Set(2)
	if l.dirty != 1 {
		t.Errorf("unsubscribed listener notified, dirty = %d", l.dirty)
	}
}

func TestSignalPeekDoesNotSubscribe(t *testing.T) {
	s := NewSignal("a")
	l := &mockListener{id: nextID()}

	WithListener(l, func() {
		_ = s.Peek()
	})
	s.Set("b")
	if l.dirty != 0 {
		t.Errorf("Peek should not subscribe, dirty = %d", l.dirty)
	}
}

func TestUntrackedDoesNotSubscribe(t *testing.T) {
	s := NewSignal(0)
	l := &mockListener{id: nextID()}

	WithListener(l, func() {
		Untracked(func() { _ = s.Get() })
	})
	s.Set(1)
	if l.dirty != 0 {
		t.Errorf("Untracked read subscribed, dirty = %d", l.dirty)
	}
}

func TestSignalUpdateAndWithEquals(t *testing.T) {
	s := NewSignal(1)
	l := &mockListener{id: nextID()}
	WithListener(l, func() { _ = s.Get() })

	s.Update(func(n int) int { return n + 1 })
	if s.Peek() != 2 || l.dirty != 1 {
		t.Fatalf("Update: value=%d dirty=%d", s.Peek(), l.dirty)
	}

	always := NewSignal([]int{1}).WithEquals(func(a, b []int) bool { return false })
	WithListener(l, func() { _ = always.Get() })
	always.Set([]int{1})
	if l.dirty != 2 {
		t.Errorf("custom equality ignored, dirty = %d", l.dirty)
	}
}

func TestSignalDefaultEqualsDeep(t *testing.T) {
	s := NewSignal([]string{"a"})
	l := &mockListener{id: nextID()}
	WithListener(l, func() { _ = s.Get() })

	s.Set([]string{"a"})
	if l.dirty != 0 {
		t.Errorf("deep-equal slice should not notify, dirty = %d", l.dirty)
	}
}

func TestSignalConcurrentUpdate(t *testing.T) {
	s := NewSignal(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(n int) int { return n + 1 })
		}()
	}
	wg.Wait()
	if s.Peek() != 50 {
		t.Errorf("value = %d, want 50", s.Peek())
	}
}
