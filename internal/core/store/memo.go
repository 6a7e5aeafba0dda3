package store

import "sync"

// memo запоминает последний вход и результат селектора.
// Пересчёт происходит, только если equal сочла входы разными.
type memo[In, Out any] struct {
	mu             sync.Mutex
	equal          func(a, b In) bool
	compute        func(In) Out
	computed       bool
	lastIn         In
	lastOut        Out
	recomputations int
}

func newMemo[In, Out any](equal func(a, b In) bool, compute func(In) Out) *memo[In, Out] {
	return &memo[In, Out]{equal: equal, compute: compute}
}

func (m *memo[In, Out]) get(in In) Out {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.computed && m.equal(m.lastIn, in) {
		return m.lastOut
	}
	m.lastOut = m.compute(in)
	m.lastIn = in
	m.computed = true
	m.recomputations++
	return m.lastOut
}

func (m *memo[In, Out]) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recomputations
}

// sameSlice сравнивает срезы по идентичности, а не по содержимому.
// Редьюсеры никогда не меняют срез на месте, поэтому совпадение
// длины и первого элемента означает тот же самый срез.
func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
