package server

import (
	"encoding/json"
	"sync"
)

// Broker is an in-process pub/sub for SSE events, keyed by session ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given session. The channel is closed when the session is dropped.
func (b *Broker) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan []byte]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(sessionID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[sessionID], ch)
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// Publish sends v to all subscribers of the given session.
func (b *Broker) Publish(sessionID string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	b.mu.RLock()
	for ch := range b.subs[sessionID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Close ends every subscription of the session.
func (b *Broker) Close(sessionID string) {
	b.mu.Lock()
	subs := b.subs[sessionID]
	delete(b.subs, sessionID)
	b.mu.Unlock()
	for ch := range subs {
		close(ch)
	}
}
