package handler

import (
	"resume-roaster-be/internal/pkg/logger"
	"resume-roaster-be/internal/pkg/serverutils"
	internalWS "resume-roaster-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const correlationLocalsKey = "correlation_id"

// PaymentStatusHandler lets the paywall page wait for the processor's confirmation.
type PaymentStatusHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewPaymentStatusHandler(hub *internalWS.Hub, log logger.ILogger) *PaymentStatusHandler {
	return &PaymentStatusHandler{
		hub:    hub,
		logger: log,
	}
}

// Upgrade resolves the session's correlation id before the protocol switch.
func (h *PaymentStatusHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	session, err := serverutils.CurrentSession(c)
	if err != nil {
		return err
	}
	session.Lock()
	correlationId := session.CorrelationId
	session.Unlock()

	if correlationId == "" {
		return serverutils.NewAppError(fiber.StatusBadRequest, "upload a resume first", nil)
	}

	c.Locals(correlationLocalsKey, correlationId)
	return c.Next()
}

func (h *PaymentStatusHandler) ServeWs(c *websocket.Conn) {
	correlationId, _ := c.Locals(correlationLocalsKey).(string)
	h.logger.Info("PaymentStatusHandler", "Starting WebSocket session", map[string]interface{}{"correlation_id": correlationId})
	internalWS.ServeWs(h.hub, c, correlationId)
	h.logger.Info("PaymentStatusHandler", "WebSocket session ended", map[string]interface{}{"correlation_id": correlationId})
}

func (h *PaymentStatusHandler) RegisterRoutes(router fiber.Router, sessionMiddleware fiber.Handler) {
	router.Get("/payment/v1/ws", sessionMiddleware, h.Upgrade, websocket.New(h.ServeWs))
}
