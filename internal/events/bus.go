// Package events carries UI intents from the view to the controller.
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	UIReady         = "ui.ready"
	RefreshProducts = "products.refresh"
	RefreshNews     = "news.refresh"
	ProductSelected = "product.selected"
	NewsSelected    = "news.selected"
	DialogClosed    = "dialog.closed"
	OpenLink        = "link.open"
	UpdateLater     = "update.later"
	UpdateAccept    = "update.accept"
)

type Event struct {
	Type      string
	Timestamp time.Time
	Data      map[string]interface{}
	Context   context.Context
}

type EventHandler interface {
	Handle(event Event)
	GetID() string
}

// Publisher is the side of the bus the view sees.
type Publisher interface {
	Publish(event Event)
}

type Bus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	buffer      chan Event
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	dropped     atomic.Int64
	onPanic     func(event Event, recovered interface{})
}

func NewBus(bufferSize int) *Bus {
	ctx, cancel := context.WithCancel(context.Background())

	bus := &Bus{
		subscribers: make(map[string][]EventHandler),
		buffer:      make(chan Event, bufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}

	bus.startWorker()
	return bus
}

// OnPanic registers a callback for handlers that panic.
func (b *Bus) OnPanic(fn func(event Event, recovered interface{})) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPanic = fn
}

// Publish enqueues an event without blocking. Events published after
// Shutdown or while the buffer is full are dropped.
func (b *Bus) Publish(event Event) {
	event.Timestamp = time.Now()
	if event.Context == nil {
		event.Context = b.ctx
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.ctx.Err() != nil {
		return
	}

	select {
	case b.buffer <- event:
	default:
		b.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *Bus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

func (b *Bus) Unsubscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.subscribers[eventType]
	for i, h := range handlers {
		if h.GetID() == handler.GetID() {
			b.subscribers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
}

// Shutdown stops dispatching and waits for the running handler.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	if b.ctx.Err() != nil {
		b.mu.Unlock()
		return
	}
	b.cancel()
	close(b.buffer)
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Bus) startWorker() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		for event := range b.buffer {
			if b.ctx.Err() != nil {
				return
			}
			b.dispatchEvent(event)
		}
	}()
}

// dispatchEvent runs handlers one after another on the worker goroutine,
// so events are handled in publish order.
func (b *Bus) dispatchEvent(event Event) {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.subscribers[event.Type]))
	copy(handlers, b.subscribers[event.Type])
	onPanic := b.onPanic
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.invoke(handler, event, onPanic)
	}
}

func (b *Bus) invoke(h EventHandler, event Event, onPanic func(Event, interface{})) {
	defer func() {
		if r := recover(); r != nil && onPanic != nil {
			onPanic(event, r)
		}
	}()
	h.Handle(event)
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc struct {
	ID string
	Fn func(Event)
}

func (h HandlerFunc) Handle(event Event) {
	h.Fn(event)
}

func (h HandlerFunc) GetID() string {
	return h.ID
}
