package goCredStore

import (
	"sync"
	"sync/atomic"
)

// stateNotifier fans installed states out to subscribers. publish never
// blocks: a subscriber whose buffer is full misses that state and the miss is
// counted, the same policy the audit dispatcher applies to a full buffer.
type stateNotifier struct {
	mu      sync.Mutex
	subs    map[uint64]chan State
	nextID  uint64
	closed  bool
	dropped atomic.Uint64
}

func newStateNotifier() *stateNotifier {
	return &stateNotifier{
		subs: make(map[uint64]chan State),
	}
}

func (n *stateNotifier) publish(s State) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	for _, ch := range n.subs {
		select {
		case ch <- s:
		default:
			n.dropped.Add(1)
		}
	}
}

func (n *stateNotifier) subscribe(buffer int) (<-chan State, func()) {
	if buffer <= 0 {
		buffer = 1
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		ch := make(chan State)
		close(ch)
		return ch, func() {}
	}

	id := n.nextID
	n.nextID++
	ch := make(chan State, buffer)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (n *stateNotifier) close() {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}

func (n *stateNotifier) droppedCount() uint64 {
	if n == nil {
		return 0
	}
	return n.dropped.Load()
}
