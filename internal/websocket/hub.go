package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"resume-roaster-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "roaster:payment_status"

const hubModule = "Hub"

// PaymentStatusMessage is pushed to every browser waiting on a correlation id.
type PaymentStatusMessage struct {
	Type          string `json:"type"`
	CorrelationId string `json:"correlation_id"`
	Status        string `json:"status"`
}

type Hub struct {
	// Waiting browsers: correlation id -> connections (several tabs may wait on one payment)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}

	mu sync.RWMutex

	// Redis fans notifications out to every instance; nil keeps delivery local.
	rdb redis.UniversalClient

	logger logger.ILogger
}

func NewHub(rdb redis.UniversalClient, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

// Run owns the client registry until ctx is cancelled. Call it once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.CorrelationID] = append(h.clients[client.CorrelationID], client)
			h.mu.Unlock()
			h.logger.Debug(hubModule, "Client registered", map[string]interface{}{"correlation_id": client.CorrelationID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.CorrelationID]
			for i, c := range clients {
				if c == client {
					h.clients[client.CorrelationID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.CorrelationID]) == 0 {
				delete(h.clients, client.CorrelationID)
			}
			h.mu.Unlock()
		}
	}
}

// Register attaches a waiting browser. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister detaches a browser; a stopped hub has nothing left to detach from.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// NotifyPayment tells every browser waiting on correlationId that its payment changed state.
// With Redis the message goes through the cluster channel, which delivers it here too.
func (h *Hub) NotifyPayment(ctx context.Context, correlationId, status string) error {
	data, err := json.Marshal(PaymentStatusMessage{
		Type:          "payment",
		CorrelationId: correlationId,
		Status:        status,
	})
	if err != nil {
		return err
	}

	if h.rdb != nil {
		return h.rdb.Publish(ctx, clusterChannel, data).Err()
	}
	h.deliver(correlationId, data)
	return nil
}

// Waiting reports how many local connections wait on correlationId.
func (h *Hub) Waiting(correlationId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[correlationId])
}

func (h *Hub) deliver(correlationId string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[correlationId] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn(hubModule, "Client Send buffer full, dropping message", map[string]interface{}{"correlation_id": correlationId})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload PaymentStatusMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn(hubModule, "Redis msg parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		h.deliver(payload.CorrelationId, []byte(msg.Payload))
	}
}
