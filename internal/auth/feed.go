package auth

import "sync"

// Feed holds one current value and pushes every new value to its
// subscribers. New subscribers receive the current value immediately.
//
// Callbacks run synchronously in registration order and must not call
// Publish or Subscribe on the same feed.
type Feed[T any] struct {
	deliver sync.Mutex // one publish or replay at a time

	mu     sync.Mutex
	value  T
	subs   []feedSub[T]
	nextID int
}

type feedSub[T any] struct {
	id int
	fn func(T)
}

func NewFeed[T any](initial T) *Feed[T] {
	return &Feed[T]{value: initial}
}

func (f *Feed[T]) Value() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Subscribe registers fn and replays the current value to it before
// returning. The returned func removes the subscription; it is safe to call
// more than once.
func (f *Feed[T]) Subscribe(fn func(T)) (cancel func()) {
	f.deliver.Lock()
	defer f.deliver.Unlock()

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs = append(f.subs, feedSub[T]{id: id, fn: fn})
	current := f.value
	f.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { f.remove(id) })
	}
}

func (f *Feed[T]) Publish(v T) {
	f.deliver.Lock()
	defer f.deliver.Unlock()

	f.mu.Lock()
	f.value = v
	subs := make([]feedSub[T], len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

func (f *Feed[T]) remove(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s.id == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return
		}
	}
}

func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
