package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"featureboard-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries board frames between instances.
const ClusterChannel = "board_events"

// Hub tracks board watchers per product and fans frames out to them.
// With Redis configured every frame is also relayed to the other instances.
type Hub struct {
	// ProductID -> watchers
	clients map[int64]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client
	// instanceId tags frames this instance relayed so it skips its own echo
	instanceId string

	logger logger.ILogger
}

type clusterFrame struct {
	Origin    string          `json:"origin"`
	ProductID int64           `json:"product_id"`
	Message   json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			watchers, ok := h.clients[client.ProductID]
			if !ok {
				watchers = make(map[*Client]struct{})
				h.clients[client.ProductID] = watchers
			}
			watchers[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"client_id":  client.Id,
				"product_id": client.ProductID,
			})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// remove closes Send exactly once, only from the Run loop.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.clients[client.ProductID]
	if !ok {
		return
	}
	if _, ok := watchers[client]; !ok {
		return
	}
	delete(watchers, client)
	close(client.Send)
	if len(watchers) == 0 {
		delete(h.clients, client.ProductID)
	}
	h.logger.Info("Hub", "Client unregistered", map[string]interface{}{
		"client_id":  client.Id,
		"product_id": client.ProductID,
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for productId, watchers := range h.clients {
		for client := range watchers {
			close(client.Send)
		}
		delete(h.clients, productId)
	}
}

// Watchers reports how many local clients watch a product.
func (h *Hub) Watchers(productId int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[productId])
}

// Publish delivers a frame to local watchers of the product and relays it
// to the other instances.
// A relay failure is logged and returned; local watchers are served either way.
func (h *Hub) Publish(ctx context.Context, productId int64, message []byte) error {
	h.deliverLocal(productId, message)

	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterFrame{Origin: h.instanceId, ProductID: productId, Message: message})
	if err != nil {
		return err
	}
	if err := h.rdb.Publish(ctx, ClusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to relay frame to cluster", map[string]interface{}{
			"product_id": productId,
			"error":      err.Error(),
		})
		return err
	}
	return nil
}

func (h *Hub) deliverLocal(productId int64, message []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients[productId] {
		select {
		case client.Send <- message:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{
			"client_id":  client.Id,
			"product_id": productId,
		})
		select {
		case h.unregister <- client:
		default:
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var frame clusterFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				h.logger.Warn("Hub", "Cluster frame parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if frame.Origin == h.instanceId {
				continue
			}
			h.deliverLocal(frame.ProductID, frame.Message)
		}
	}
}
