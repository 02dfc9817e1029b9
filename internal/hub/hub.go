package hub

import (
	"context"
	"log"
	"sync"

	"buckeyeborrow/internal/models"
)

// subscriberBuffer bounds each viewer's delivery queue. A viewer that
// falls this far behind starts dropping messages rather than stalling
// the room.
const subscriberBuffer = 32

// Subscription is one live viewer of a request's comment thread.
// Messages arrive on C as JSON-encoded comment views.
type Subscription struct {
	requestID string
	C         chan []byte
}

type roomMessage struct {
	requestID string
	payload   []byte
}

// Hub fans comment inserts out to the live viewers of each community
// request. Rooms are keyed by request id and exist only while they have
// at least one viewer.
type Hub struct {
	register   chan *Subscription
	unregister chan *Subscription
	broadcast  chan roomMessage

	mu    sync.RWMutex
	rooms map[string]map[*Subscription]bool
}

// New creates a Hub. Call Run in its own goroutine before subscribing.
func New() *Hub {
	return &Hub{
		register:   make(chan *Subscription),
		unregister: make(chan *Subscription),
		broadcast:  make(chan roomMessage, 256),
		rooms:      make(map[string]map[*Subscription]bool),
	}
}

// Run drives the hub until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case sub := <-h.register:
			h.add(sub)
		case sub := <-h.unregister:
			h.remove(sub)
		case msg := <-h.broadcast:
			h.deliver(msg)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Subscribe registers a viewer on a request's room. The caller must
// Unsubscribe on every exit path.
func (h *Hub) Subscribe(requestID string) *Subscription {
	sub := &Subscription{requestID: requestID, C: make(chan []byte, subscriberBuffer)}
	h.register <- sub
	return sub
}

// Unsubscribe removes a viewer and closes its channel. Safe to call once
// per subscription.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.unregister <- sub
}

// Broadcast queues a payload for every viewer of the request. Non-blocking;
// drops the message if the hub's queue is full.
func (h *Hub) Broadcast(requestID string, payload []byte) {
	select {
	case h.broadcast <- roomMessage{requestID: requestID, payload: payload}:
	default:
		log.Printf("Warning: live-feed queue full, dropping message for request %s", requestID)
	}
}

// ViewerCount reports how many viewers a request currently has.
func (h *Hub) ViewerCount(requestID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[requestID])
}

func (h *Hub) add(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[sub.requestID]
	if !ok {
		room = make(map[*Subscription]bool)
		h.rooms[sub.requestID] = room
	}
	room[sub] = true
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[sub.requestID]
	if !ok || !room[sub] {
		return
	}
	delete(room, sub)
	close(sub.C)
	if len(room) == 0 {
		delete(h.rooms, sub.requestID)
	}
}

func (h *Hub) deliver(msg roomMessage) {
	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.rooms[msg.requestID]))
	for sub := range h.rooms[msg.requestID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.C <- msg.payload:
		default:
			// A slow viewer misses this message; its connection stays up.
			log.Printf("Warning: slow live-feed viewer on request %s, message dropped", msg.requestID)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, room := range h.rooms {
		for sub := range room {
			close(sub.C)
		}
		delete(h.rooms, id)
	}
}

// OrderedInsert places the comment into a slice kept sorted by creation
// time, with id as the tie-break, so backlog and live inserts converge
// to the same order on every viewer.
func OrderedInsert(comments []models.RequestCommentView, c models.RequestCommentView) []models.RequestCommentView {
	i := len(comments)
	for i > 0 {
		prev := comments[i-1]
		if prev.CreatedAt.Before(c.CreatedAt) || (prev.CreatedAt.Equal(c.CreatedAt) && prev.ID <= c.ID) {
			break
		}
		i--
	}
	comments = append(comments, models.RequestCommentView{})
	copy(comments[i+1:], comments[i:])
	comments[i] = c
	return comments
}
