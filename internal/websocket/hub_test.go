package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"resume-roaster-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func waitingClient(hub *Hub, correlationId string) *Client {
	client := &Client{Hub: hub, CorrelationID: correlationId, Send: make(chan []byte, 1)}
	hub.Register(client)
	return client
}

func TestNotifyPaymentReachesWaitingClients(t *testing.T) {
	hub := startHub(t)
	first := waitingClient(hub, "abc123def456")
	second := waitingClient(hub, "abc123def456")
	other := waitingClient(hub, "ffffffffffff")

	require.Eventually(t, func() bool { return hub.Waiting("abc123def456") == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hub.NotifyPayment(context.Background(), "abc123def456", "paid"))

	for _, client := range []*Client{first, second} {
		select {
		case data := <-client.Send:
			var msg PaymentStatusMessage
			require.NoError(t, json.Unmarshal(data, &msg))
			assert.Equal(t, "payment", msg.Type)
			assert.Equal(t, "paid", msg.Status)
		case <-time.After(time.Second):
			t.Fatal("no message delivered")
		}
	}
	assert.Empty(t, other.Send)
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	hub := startHub(t)
	client := waitingClient(hub, "abc123def456")

	hub.Unregister(client)

	_, open := <-client.Send
	assert.False(t, open)
	assert.Equal(t, 0, hub.Waiting("abc123def456"))
}

func TestFullBufferDropsMessage(t *testing.T) {
	hub := startHub(t)
	client := waitingClient(hub, "abc123def456")
	require.Eventually(t, func() bool { return hub.Waiting("abc123def456") == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.NotifyPayment(context.Background(), "abc123def456", "pending"))
	require.NoError(t, hub.NotifyPayment(context.Background(), "abc123def456", "paid"))

	assert.Len(t, client.Send, 1)
}

func TestStoppedHubDoesNotBlockClients(t *testing.T) {
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := waitingClient(hub, "abc123def456")
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		hub.Unregister(client)
		assert.False(t, hub.Register(&Client{Hub: hub, CorrelationID: "ffffffffffff"}))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("client blocked on a stopped hub")
	}
}
