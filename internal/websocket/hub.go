package websocket

import (
	"context"
	"encoding/json"

	"fftopup/internal/dto"
	"fftopup/internal/model"
)

type client struct {
	send    chan []byte
	orderID string
}

// Hub fans order status updates out to the websocket subscribers of each
// order. All subscriber state is owned by the Run goroutine.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan dto.OrderUpdate
	done       chan struct{}
	clients    map[string]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan dto.OrderUpdate, 64),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*client]bool),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			set, ok := h.clients[c.orderID]
			if !ok {
				set = make(map[*client]bool)
				h.clients[c.orderID] = set
			}
			set[c] = true
		case c := <-h.unregister:
			h.drop(c)
		case upd := <-h.broadcast:
			msg, err := json.Marshal(upd)
			if err != nil {
				continue
			}
			for c := range h.clients[upd.OrderID] {
				select {
				case c.send <- msg:
				default:
					// slow subscriber
					h.drop(c)
				}
			}
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = map[string]map[*client]bool{}
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	set, ok := h.clients[c.orderID]
	if !ok {
		return
	}
	if _, exists := set[c]; exists {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.clients, c.orderID)
	}
}

// PublishOrderStatus queues an update for the subscribers of orderID. It
// never blocks the caller for longer than the hub takes to accept it, and
// is a no-op once the hub has stopped.
func (h *Hub) PublishOrderStatus(orderID string, status model.OrderStatus) {
	select {
	case h.broadcast <- dto.OrderUpdate{OrderID: orderID, Status: status}:
	case <-h.done:
	}
}

func (h *Hub) subscribe(orderID string) (*client, bool) {
	c := &client{send: make(chan []byte, 16), orderID: orderID}
	select {
	case h.register <- c:
		return c, true
	case <-h.done:
		return nil, false
	}
}

func (h *Hub) unsubscribe(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
