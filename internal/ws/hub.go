package ws

import (
	"encoding/json"
	"sync"
)

// Client represents a single WebSocket connection scoped to one tenant's feed.
// The hub owns the Send channel's lifecycle: it is closed only by unregister,
// under the hub lock, so broadcasts can never race a close.
type Client struct {
	TenantID uint
	Send     chan []byte
	hub      *Hub
	closed   bool // guarded by hub.mu once registered
}

func (c *Client) Close() {
	if c.hub != nil {
		c.hub.unregister(c)
		return
	}
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// Hub maintains the set of connected portal viewers, grouped by tenant.
type Hub struct {
	mu       sync.RWMutex
	byTenant map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byTenant: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byTenant[c.TenantID] == nil {
		h.byTenant[c.TenantID] = make(map[*Client]struct{})
	}
	h.byTenant[c.TenantID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if m := h.byTenant[c.TenantID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byTenant, c.TenantID)
		}
	}
}

// BroadcastToTenant delivers the payload to every connected client of the
// tenant, dropping it for clients whose buffers are full. Sends happen under
// the read lock while closes take the write lock, so a client disconnecting
// mid-broadcast cannot panic the sender.
func (h *Hub) BroadcastToTenant(tenantID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.byTenant[tenantID] {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) ClientCount(tenantID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byTenant[tenantID])
}
