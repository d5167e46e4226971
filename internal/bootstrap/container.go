package bootstrap

import (
	"context"
	"log"
	"time"

	"visaforge-be/internal/config"
	"visaforge-be/internal/controller"
	"visaforge-be/internal/pkg/logger"
	"visaforge-be/internal/pkg/mailer"
	"visaforge-be/internal/pkg/serverutils"
	"visaforge-be/internal/repository/memory"
	"visaforge-be/internal/repository/unitofwork"
	"visaforge-be/internal/service"
	"visaforge-be/pkg/billing"
	"visaforge-be/pkg/llm"
	"visaforge-be/pkg/llm/factory"
	pktNats "visaforge-be/pkg/nats"
	"visaforge-be/pkg/storage"
	"visaforge-be/pkg/translation"
	"visaforge-be/pkg/webref"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	VisaTypeController    controller.IVisaTypeController
	VisaCaseController    controller.IVisaCaseController
	EvidenceController    controller.IEvidenceController
	TaskController        controller.ITaskController
	PacketController      controller.IPacketController
	PaymentController     controller.IPaymentController
	InterviewController   controller.IInterviewController
	AssistantController   controller.IAssistantController
	TranslationController controller.ITranslationController
	ContactController     controller.IContactController
	ReminderController    controller.IReminderController

	// Background services, started by main.
	ConsumerService service.IConsumerService

	Logger  *logger.ZapLogger
	closers []func()
}

// Close releases broker connections opened by NewContainer.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	c.Logger = sysLogger

	emailService := mailer.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var eventPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 3. Vendors
	store, err := storage.NewS3Store(context.Background(), storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize storage: %v", err)
	}

	var gateway billing.Gateway
	if g := billing.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret); g != nil {
		gateway = g
	} else {
		log.Printf("[WARN] STRIPE_SECRET_KEY missing, billing disabled")
	}
	prices := billing.PriceBook{
		CaseStarter:       cfg.Stripe.Prices.CaseStarter,
		CaseComplete:      cfg.Stripe.Prices.CaseComplete,
		CasePremium:       cfg.Stripe.Prices.CasePremium,
		MembershipMonthly: cfg.Stripe.Prices.MembershipMonthly,
		Upsells:           cfg.Stripe.Prices.Upsells,
	}

	var (
		chatModel   llm.LLMProvider
		transcriber llm.Transcriber
	)
	provider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.APIKey, cfg.Ai.BaseURL, cfg.Ai.Model, cfg.Ai.TranscribeModel)
	if err != nil {
		log.Printf("[WARN] AI features disabled: %v", err)
	} else {
		chatModel, transcriber = provider, provider
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.Model)
	}

	translator := translation.NewClient(cfg.Translation.Endpoint, cfg.Translation.APIKey)

	// 4. Grounding
	fetcher := webref.NewFetcher(cfg.Grounding.AllowedHosts, cfg.Grounding.Timeout)
	refCache := memory.NewReferenceCache(cfg.Grounding.CacheTTL)
	counter := newDayCounter(cfg.App.RedisURL, &c.closers)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub)
	taskService := service.NewTaskService(uowFactory, sysLogger)
	visaCaseService := service.NewVisaCaseService(uowFactory, sysLogger)
	evidenceService := service.NewEvidenceService(uowFactory, store, taskService, sysLogger,
		cfg.Storage.EvidenceBucket, cfg.Storage.SignedURLTTL)
	packetService := service.NewPacketService(uowFactory, store, publisherService, sysLogger,
		cfg.Storage.PacketBucket, cfg.Storage.SignedURLTTL)
	paymentService := service.NewPaymentService(uowFactory, gateway, prices, publisherService, sysLogger, cfg.App.ClientURL)
	interviewService := service.NewInterviewService(uowFactory, chatModel, transcriber, sysLogger)
	groundingService := service.NewGroundingService(fetcher, refCache, counter, cfg.Grounding.DailyCap, sysLogger)
	assistantService := service.NewAssistantService(uowFactory, chatModel, groundingService, eventPublisher, sysLogger)
	translationService := service.NewTranslationService(translator, sysLogger)
	contactService := service.NewContactService(emailService, cfg.SMTP.ContactFromEmail, sysLogger)
	reminderService := service.NewReminderService(uowFactory, emailService, eventPublisher, sysLogger,
		cfg.SMTP.ReminderFromEmail, cfg.App.ClientURL)

	c.ConsumerService = service.NewConsumerService(pubSub, emailService, eventPublisher, sysLogger,
		cfg.SMTP.ReceiptFromEmail, cfg.App.ClientURL)

	// 6. Controllers
	auth := serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret)

	c.VisaTypeController = controller.NewVisaTypeController(visaCaseService)
	c.VisaCaseController = controller.NewVisaCaseController(visaCaseService, auth)
	c.EvidenceController = controller.NewEvidenceController(evidenceService, auth)
	c.TaskController = controller.NewTaskController(taskService, auth)
	c.PacketController = controller.NewPacketController(packetService, auth)
	c.PaymentController = controller.NewPaymentController(paymentService, auth)
	c.InterviewController = controller.NewInterviewController(interviewService, auth)
	c.AssistantController = controller.NewAssistantController(assistantService, auth)
	c.TranslationController = controller.NewTranslationController(translationService, auth)
	c.ContactController = controller.NewContactController(contactService)
	c.ReminderController = controller.NewReminderController(reminderService, cfg.App.CronSecret)

	return c
}

// newDayCounter shares the grounding cap across instances through Redis and
// falls back to a per-process counter when Redis is not reachable.
func newDayCounter(redisURL string, closers *[]func()) service.DailyCounter {
	if redisURL == "" {
		return memory.NewLocalDayCounter(nil)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: redisURL}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Grounding cap is per process", err)
		_ = rdb.Close()
		return memory.NewLocalDayCounter(nil)
	}

	*closers = append(*closers, func() { _ = rdb.Close() })
	return memory.NewRedisDayCounter(rdb, nil)
}
