package statusweb3mockgo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Bridge receives calls forwarded by the content program, runs them through
// a Dispatcher and delivers each result back by correlation id.
//
// Every call is dispatched exactly once on its own goroutine; results of
// different ids may be delivered in any order.
type Bridge struct {
	session    *Session
	dispatcher Dispatcher
	deliverer  Deliverer

	// generation identifies the current page. Results computed for an
	// earlier generation target a torn-down page and are dropped.
	generation atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewBridge(session *Session, dispatcher Dispatcher, deliverer Deliverer) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		session:    session,
		dispatcher: dispatcher,
		deliverer:  deliverer,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *Bridge) trace(msg string, ctx ...interface{}) {
	if b.session.Debug() {
		logger.Info(msg, ctx...)
	} else {
		logger.Trace(msg, ctx...)
	}
}

// HandleMessage accepts one raw JSON message from the content program.
// Malformed messages are dropped and reported as ErrMalformedMessage; the
// content program never hears about them.
func (b *Bridge) HandleMessage(raw []byte) error {
	var call Call
	if err := json.Unmarshal(raw, &call); err != nil {
		b.trace("dropping malformed bridge message", "error", err, "size", len(raw))
		if errors.Is(err, ErrMalformedMessage) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	return b.Submit(&call)
}

// Submit dispatches an already decoded call.
func (b *Bridge) Submit(call *Call) error {
	if call == nil || call.ID == "" || call.Method == "" {
		b.trace("dropping call without id or method")
		return ErrMalformedMessage
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBridgeClosed
	}
	b.wg.Add(1)
	b.mu.Unlock()

	gen := b.generation.Load()
	b.trace("bridge call", "id", call.ID, "method", call.Method)

	go b.run(gen, call)

	return nil
}

func (b *Bridge) run(gen uint64, call *Call) {
	defer b.wg.Done()

	delivery := &Delivery{ID: call.ID}
	result, err := b.dispatcher.Dispatch(b.ctx, call)
	if err != nil {
		delivery.Error = toRPCError(call.Method, err)
		b.trace("bridge call failed", "id", call.ID, "method", call.Method, "error", err)
	} else {
		delivery.Result = result
	}

	if b.generation.Load() != gen || b.ctx.Err() != nil {
		b.trace("dropping delivery for torn-down page", "id", call.ID, "method", call.Method)
		return
	}

	b.deliverer.Deliver(delivery)
}

// SimulateEvent pushes a provider event (connect, disconnect, accountsChanged,
// chainChanged, or any custom name) into the current page.
func (b *Bridge) SimulateEvent(name string, data interface{}) error {
	if name == "" {
		return errors.New("event name is required")
	}
	if b.ctx.Err() != nil {
		return ErrBridgeClosed
	}

	b.trace("simulating provider event", "event", name)
	b.deliverer.Notify(&Notification{Name: name, Data: data})

	return nil
}

// Teardown marks the current page as gone. Calls still in flight are
// dispatched but their results are discarded.
func (b *Bridge) Teardown() {
	gen := b.generation.Add(1)
	b.trace("page torn down", "generation", gen)
}

// Generation returns the id of the current page.
func (b *Bridge) Generation() uint64 {
	return b.generation.Load()
}

// Wait blocks until every submitted call has been delivered or dropped.
func (b *Bridge) Wait() {
	b.wg.Wait()
}

// Close stops accepting calls, cancels in-flight dispatches and waits for
// their goroutines.
func (b *Bridge) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
}
