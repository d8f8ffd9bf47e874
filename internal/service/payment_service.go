// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"resume-roaster-be/internal/config"
	"resume-roaster-be/internal/dto"
	"resume-roaster-be/internal/entity"
	"resume-roaster-be/internal/pkg/logger"
	"resume-roaster-be/internal/pkg/serverutils"
	"resume-roaster-be/internal/repository/contract"
	"resume-roaster-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

const (
	paymentModule = "PAYMENT"
	CheckoutRoute = "/api/payment/v1/checkout"
)

// SnapClient is the part of the Midtrans Snap client the checkout needs.
type SnapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type IPaymentService interface {
	// PaymentURL is the outbound link carrying the correlation id, empty when none is configured.
	PaymentURL(correlationId string) string
	// IsPaid decides whether premium content unlocks for this request.
	// orderIds are the checkout orders the visitor's session opened.
	IsPaid(ctx context.Context, correlationId string, orderIds []string, paidParam bool) bool
	Checkout(ctx context.Context, session *entity.Session) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type paymentService struct {
	cfg       config.PaymentConfig
	baseURL   string
	ledger    contract.PaymentLedgerRepository
	publisher IPublisherService
	snap      SnapClient
	logger    logger.ILogger
}

func NewPaymentService(
	cfg config.PaymentConfig,
	baseURL string,
	ledger contract.PaymentLedgerRepository,
	publisher IPublisherService,
	snapClient SnapClient,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		cfg:       cfg,
		baseURL:   strings.TrimRight(baseURL, "/"),
		ledger:    ledger,
		publisher: publisher,
		snap:      snapClient,
		logger:    log,
	}
}

// NewSnapClient builds a Midtrans Snap client, nil when no server key is configured.
func NewSnapClient(cfg config.PaymentConfig) SnapClient {
	if cfg.MidtransServerKey == "" {
		return nil
	}
	env := midtrans.Sandbox
	if cfg.MidtransIsProduction {
		env = midtrans.Production
	}
	var client snap.Client
	client.New(cfg.MidtransServerKey, env)
	return &client
}

// PaymentURL prefers the in-app checkout while verification is on, since a
// hosted link payment never reaches the ledger.
func (s *paymentService) PaymentURL(correlationId string) string {
	if s.cfg.Verify && s.snap != nil {
		return s.baseURL + CheckoutRoute
	}
	if s.cfg.LinkURL != "" {
		link, err := url.Parse(s.cfg.LinkURL)
		if err != nil {
			return ""
		}
		q := link.Query()
		q.Set("client_reference_id", correlationId)
		link.RawQuery = q.Encode()
		return link.String()
	}
	if s.snap != nil {
		return s.baseURL + CheckoutRoute
	}
	return ""
}

// IsPaid trusts the redirect flag alone unless verification is on, in which
// case one of the session's own orders must hold a processor-confirmed
// payment for the current document.
func (s *paymentService) IsPaid(ctx context.Context, correlationId string, orderIds []string, paidParam bool) bool {
	if !paidParam || correlationId == "" {
		return false
	}
	if !s.cfg.Verify {
		return true
	}

	for _, orderId := range orderIds {
		record, err := s.ledger.FindByOrderId(ctx, orderId)
		if err != nil {
			s.logger.Error(paymentModule, "Ledger lookup failed", map[string]interface{}{
				"order_id": orderId,
				"error":    err,
			})
			continue
		}
		if record != nil && record.CorrelationId == correlationId && record.Status == entity.PaymentStatusPaid {
			return true
		}
	}
	return false
}

func (s *paymentService) Checkout(ctx context.Context, session *entity.Session) (*dto.CheckoutResponse, error) {
	if s.snap == nil {
		return nil, serverutils.NewAppError(fiber.StatusServiceUnavailable, "checkout is not configured", nil)
	}

	session.Lock()
	correlationId := session.CorrelationId
	session.Unlock()
	if correlationId == "" {
		return nil, ErrNoContent
	}

	// Midtrans order ids must be unique per attempt; the correlation id is recovered from the prefix.
	orderId := correlationId + "-" + uuid.NewString()[:8]

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: s.cfg.PriceAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: s.baseURL + "/?paid=true",
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "premium-rewrite-letter",
				Price: s.cfg.PriceAmount,
				Qty:   1,
				Name:  "Resume Rewrite + Cover Letter",
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := s.snap.CreateTransaction(snapReq)
	if midErr != nil {
		s.logger.Error(paymentModule, "Midtrans checkout failed", map[string]interface{}{
			"order_id": orderId,
			"message":  midErr.GetMessage(),
		})
		return nil, serverutils.NewAppError(fiber.StatusBadGateway, fmt.Sprintf("midtrans error: %v", midErr.GetMessage()), nil)
	}

	session.Lock()
	session.OrderIds = append(session.OrderIds, orderId)
	session.Unlock()

	s.logger.Info(paymentModule, "Checkout created", map[string]interface{}{
		"order_id":       orderId,
		"correlation_id": correlationId,
	})

	return &dto.CheckoutResponse{
		OrderId:         orderId,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	if s.cfg.MidtransServerKey == "" {
		return serverutils.NewAppError(fiber.StatusServiceUnavailable, "server configuration error", nil)
	}

	if !validSignature(req, s.cfg.MidtransServerKey) {
		s.logger.Warn(paymentModule, "Webhook signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return serverutils.NewAppError(fiber.StatusUnauthorized, "invalid signature", nil)
	}

	correlationId, _, ok := strings.Cut(req.OrderId, "-")
	if !ok || correlationId == "" {
		return serverutils.NewAppError(fiber.StatusBadRequest, "invalid order id format", nil)
	}

	var eventType string
	switch req.TransactionStatus {
	case "settlement":
		eventType = events.TypePaymentConfirmed
	case "capture":
		if req.FraudStatus == "challenge" {
			return nil
		}
		eventType = events.TypePaymentConfirmed
	case "deny", "cancel", "expire":
		eventType = events.TypePaymentFailed
	default:
		// pending and unknown statuses need no action
		s.logger.Info(paymentModule, "Webhook status ignored", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	}

	s.logger.Info(paymentModule, "Webhook accepted", map[string]interface{}{
		"order_id":       req.OrderId,
		"correlation_id": correlationId,
		"status":         req.TransactionStatus,
		"event":          eventType,
	})

	return s.publisher.PublishPayment(ctx, dto.PaymentEventMessage{
		Type:          eventType,
		CorrelationId: correlationId,
		OrderId:       req.OrderId,
		GrossAmount:   req.GrossAmount,
	})
}

// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
func validSignature(req *dto.MidtransWebhookRequest, serverKey string) bool {
	sum := sha512.Sum512([]byte(req.OrderId + req.StatusCode + req.GrossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(req.SignatureKey))) == 1
}
