package controller

import (
	"resume-roaster-be/internal/dto"
	"resume-roaster-be/internal/pkg/logger"
	"resume-roaster-be/internal/pkg/serverutils"
	"resume-roaster-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler)
	Checkout(ctx *fiber.Ctx) error
	CheckoutRedirect(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
	logger  logger.ILogger
}

func NewPaymentController(service service.IPaymentService, log logger.ILogger) IPaymentController {
	return &paymentController{service: service, logger: log}
}

func (c *paymentController) RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler) {
	h := r.Group("/payment/v1")
	h.Post("/midtrans/notification", c.Webhook)

	h.Post("/checkout", sessionMiddleware, c.Checkout)
	h.Get("/checkout", sessionMiddleware, c.CheckoutRedirect) // target of the paywall link
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	session, err := serverutils.CurrentSession(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Checkout(ctx.UserContext(), session)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *paymentController) CheckoutRedirect(ctx *fiber.Ctx) error {
	session, err := serverutils.CurrentSession(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Checkout(ctx.UserContext(), session)
	if err != nil {
		return err
	}
	return ctx.Redirect(res.SnapRedirectUrl, fiber.StatusFound)
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		c.logger.Warn("WEBHOOK", "Body parsing failed", map[string]interface{}{"error": err.Error()})
		return ctx.SendStatus(fiber.StatusBadRequest)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sigPreview := req.SignatureKey
	if len(sigPreview) > 8 {
		sigPreview = sigPreview[:8] + "..."
	}
	c.logger.Info("WEBHOOK", "Received notification", map[string]interface{}{
		"order_id":      req.OrderId,
		"status":        req.TransactionStatus,
		"signature_key": sigPreview,
	})

	// A non-2xx answer makes Midtrans retry the notification.
	if err := c.service.HandleNotification(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusOK)
}
