package bootstrap

import (
	"context"
	"log"
	"time"

	"resume-roaster-be/internal/config"
	"resume-roaster-be/internal/controller"
	"resume-roaster-be/internal/handler"
	"resume-roaster-be/internal/pkg/logger"
	"resume-roaster-be/internal/pkg/serverutils"
	"resume-roaster-be/internal/repository/contract"
	"resume-roaster-be/internal/repository/memory"
	"resume-roaster-be/internal/repository/redisstore"
	"resume-roaster-be/internal/service"
	internalWS "resume-roaster-be/internal/websocket"
	"resume-roaster-be/pkg/llm"
	"resume-roaster-be/pkg/llm/gemini"

	pktNats "resume-roaster-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	PaymentTopic     = "PAYMENT_EVENTS"
	paymentLedgerTTL = 30 * 24 * time.Hour
)

type Container struct {
	// Controllers
	RoastController   controller.IRoastController
	PaymentController controller.IPaymentController

	// WebSockets
	PaymentStatusHandler *handler.PaymentStatusHandler
	WebSocketHub         *internalWS.Hub

	SessionMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	paymentLogger := logger.NewIsolatedLogger("logs/payment.log")
	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	sessionRepo := memory.NewSessionRepository(cfg.App.SessionTTL)

	// Redis (optional)
	rdb := c.connectRedis(cfg.App.RedisURL)
	var ledger contract.PaymentLedgerRepository = memory.NewPaymentLedger()
	var hubRedis redis.UniversalClient
	if rdb != nil {
		ledger = redisstore.NewPaymentLedger(rdb, paymentLedgerTTL)
		hubRedis = rdb
	}

	// WebSocket Hub
	c.WebSocketHub = internalWS.NewHub(hubRedis, paymentLogger)

	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 4. LLM
	geminiProvider := gemini.NewProvider(cfg.Gemini.ApiKey, cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.Timeout)
	policy := llm.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.Retry.MaxAttempts
	policy.BaseDelay = cfg.Retry.BaseDelay
	policy.Multiplier = cfg.Retry.Multiplier
	generator := llm.NewRetryingGenerator(geminiProvider, policy)
	log.Printf("[INFO] Using LLM Provider: gemini (%s)", cfg.Gemini.Model)

	// 5. Services
	publisherService := service.NewPublisherService(PaymentTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, PaymentTopic, ledger, forwarder, c.WebSocketHub, paymentLogger)

	paymentService := service.NewPaymentService(
		cfg.Payment,
		cfg.App.BaseURL,
		ledger,
		publisherService,
		service.NewSnapClient(cfg.Payment),
		paymentLogger,
	)
	var genOptions []llm.Option
	if cfg.Gemini.Temperature > 0 {
		genOptions = append(genOptions, llm.WithTemperature(cfg.Gemini.Temperature))
	}
	if cfg.Gemini.MaxOutputTokens > 0 {
		genOptions = append(genOptions, llm.WithMaxTokens(cfg.Gemini.MaxOutputTokens))
	}
	roastService := service.NewRoastService(
		generator,
		geminiProvider,
		paymentService,
		sysLogger,
		cfg.App.TempDir,
		cfg.MaxUploadBytes(),
		genOptions...,
	)

	// 6. Controllers
	c.RoastController = controller.NewRoastController(roastService)
	c.PaymentController = controller.NewPaymentController(paymentService, paymentLogger)
	c.PaymentStatusHandler = handler.NewPaymentStatusHandler(c.WebSocketHub, paymentLogger)
	c.SessionMiddleware = serverutils.SessionMiddleware(sessionRepo, []byte(cfg.App.SessionSecret), cfg.App.SessionTTL)

	return c
}

// connectRedis returns nil when no URL is set or the server is unreachable;
// payment state then stays in this process.
func (c *Container) connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Payment state kept in memory", err)
		_ = rdb.Close()
		return nil
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return rdb
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
