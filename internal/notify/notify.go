// Package notify provides a synchronous observer registry that model types
// embed to broadcast their state after every mutation.
package notify

// Notifier keeps an ordered list of callbacks. The zero value is ready to use.
//
// Notifier is not safe for concurrent use; the owning entity and all of its
// subscribers are expected to live on a single goroutine.
type Notifier[T any] struct {
	subscribers []subscriber[T]
	nextID      int
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once is a no-op.
func (n *Notifier[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	n.nextID++
	id := n.nextID
	n.subscribers = append(n.subscribers, subscriber[T]{id: id, fn: fn})

	return func() {
		for i, sub := range n.subscribers {
			if sub.id == id {
				// Copy so an in-flight Notify keeps iterating its own snapshot
				next := make([]subscriber[T], 0, len(n.subscribers)-1)
				next = append(next, n.subscribers[:i]...)
				n.subscribers = append(next, n.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Notify delivers v to every subscriber in registration order. Subscribers
// added or removed while Notify runs only see the change on the next call.
func (n *Notifier[T]) Notify(v T) {
	subs := n.subscribers
	for _, sub := range subs {
		sub.fn(v)
	}
}

// Len returns the number of registered subscribers.
func (n *Notifier[T]) Len() int {
	return len(n.subscribers)
}
