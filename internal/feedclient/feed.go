package feedclient

import (
	"context"
	"net/http"
	"sync"
)

// Feed is one mounted consumer of the proxy. It starts in the loading state,
// settles exactly once, and never goes back to loading.
type Feed struct {
	// notifyMu orders the initial Subscribe callback against settle.
	notifyMu sync.Mutex

	mu        sync.Mutex
	state     State
	subs      map[int]func(State)
	nextSub   int
	unmounted bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Mount starts the single fetch for a new Feed. header is forwarded on the
// proxy request and may be nil.
func (c *Client) Mount(ctx context.Context, header http.Header) *Feed {
	ctx, cancel := context.WithCancel(ctx)
	f := &Feed{
		state:  loadingState(),
		subs:   make(map[int]func(State)),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(f.done)
		defer cancel()
		f.settle(c.Fetch(ctx, header))
	}()

	return f
}

// State returns the current snapshot.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Subscribe registers fn for state changes and calls it once with the
// current state. The returned func removes the subscription. fn must not
// call Subscribe.
func (f *Feed) Subscribe(fn func(State)) func() {
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()

	f.mu.Lock()
	if f.unmounted {
		f.mu.Unlock()
		return func() {}
	}
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	current := f.state
	f.mu.Unlock()

	fn(current)

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// Done is closed once the fetch has finished, whether or not its result was
// applied.
func (f *Feed) Done() <-chan struct{} {
	return f.done
}

// Unmount cancels the in-flight request and drops subscribers. A result that
// arrives afterwards is discarded.
func (f *Feed) Unmount() {
	f.mu.Lock()
	f.unmounted = true
	f.subs = nil
	f.mu.Unlock()

	f.cancel()
}

func (f *Feed) settle(next State) {
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()

	f.mu.Lock()
	if f.unmounted || f.state.Settled() {
		f.mu.Unlock()
		return
	}
	f.state = next
	subs := make([]func(State), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
