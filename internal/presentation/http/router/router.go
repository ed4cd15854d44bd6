// Package router configures HTTP routes and middleware.
package router

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberws "github.com/gofiber/websocket/v2"
	swagger "github.com/swaggo/fiber-swagger"

	_ "github.com/daniel-caso-github/realtime-alerting-system/docs" // Blank import for Swagger documentation initialization

	appevent "github.com/daniel-caso-github/realtime-alerting-system/internal/application/event"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/application/service"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/entity"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/event"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/notification"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/circuitbreaker"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/config"
	infranotification "github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/notification"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/worker"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/http/handler"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/http/middleware"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/websocket"
)

// Dependencies holds all dependencies needed by the router.
type Dependencies struct {
	Config              *config.Config
	AlertRepo           repository.AlertRepository
	ApprovalRepo        repository.ApprovalRepository
	HealingActionRepo   repository.HealingActionRepository
	CacheRepo           repository.CacheRepository
	WSHub               *websocket.Hub
	EventBus            event.Publisher
	EventWorker         *worker.EventWorker
	DeadLetterProcessor *worker.DeadLetterProcessor
}

// Setup configures and returns a Fiber app with all routes.
func Setup(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.Config.App.Name,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
		ErrorHandler: customErrorHandler,
	})

	setupMiddleware(app, deps.Config)

	// Create circuit breaker registry, shared between the notifiers it
	// protects and the admin stats endpoint that reports on them.
	cbRegistry := circuitbreaker.NewRegistry()

	notifiers := buildNotifiers(deps.Config, cbRegistry)

	// Create event producer for the async audit/observability side-channel.
	var alertProducer *appevent.AlertProducer
	if deps.EventBus != nil {
		alertProducer = appevent.NewAlertProducer(deps.EventBus)
	}

	// C1 Rule Engine: rules are registered at startup elsewhere (config or
	// an operator tool); the engine itself holds no rules by default.
	ruleEngine := service.NewRuleEngine()

	// C2 Alert Correlator
	correlatorCfg := service.DefaultCorrelatorConfig()
	if deps.Config.Alerting.CorrelationWindowSeconds > 0 {
		correlatorCfg.WindowSeconds = deps.Config.Alerting.CorrelationWindowSeconds
	}
	if deps.Config.Alerting.GroupTTLSeconds > 0 {
		correlatorCfg.GroupTTLSeconds = deps.Config.Alerting.GroupTTLSeconds
	}
	if deps.Config.Alerting.RateLimitCount > 0 {
		correlatorCfg.RateLimitCount = deps.Config.Alerting.RateLimitCount
	}
	if deps.Config.Alerting.RateLimitSeconds > 0 {
		correlatorCfg.RateLimitSeconds = deps.Config.Alerting.RateLimitSeconds
	}
	correlator := service.NewCorrelator(correlatorCfg, deps.CacheRepo)

	// C3 Notification Router
	routerCfg := service.DefaultRouterConfig()
	notificationRouter := service.NewNotificationRouter(routerCfg, notifiers)

	// C4 Alert Generator
	generatorCfg := service.DefaultGeneratorConfig()
	generatorCfg.MaxConcurrentAlerts = deps.Config.Alerting.MaxConcurrentAlerts
	alertGenerator := service.NewAlertGenerator(generatorCfg, ruleEngine, correlator, notificationRouter, deps.AlertRepo)

	// C5 Escalation Manager: starts its own background ladder-check loop.
	escalationCfg := service.DefaultEscalationManagerConfig()
	escalationCfg.Interval = time.Duration(deps.Config.Escalation.IntervalSeconds) * time.Second
	escalationManager := service.NewEscalationManager(escalationCfg, deps.AlertRepo, notificationRouter)
	escalationManager.StartMonitoring(context.Background())

	// C6 Confidence Scorer
	scorerCfg := service.DefaultConfidenceScorerConfig()
	scorerCfg.MinHistorySamples = deps.Config.SelfHealing.MinHistorySamples
	confidenceScorer := service.NewConfidenceScorer(scorerCfg, deps.HealingActionRepo)

	// C7 Impact Analyzer
	impactAnalyzer := service.NewImpactAnalyzer(service.DefaultImpactAnalyzerConfig())

	// C8 Approval Manager
	approvalCfg := service.DefaultApprovalManagerConfig()
	approvalCfg.Mode = entity.SelfHealingMode(deps.Config.SelfHealing.Mode)
	approvalCfg.ConfidenceThreshold = deps.Config.SelfHealing.ConfidenceThreshold
	approvalCfg.AutomaticRiskThreshold = deps.Config.SelfHealing.AutomaticRiskThreshold
	approvalCfg.SemiAutomaticRiskThreshold = deps.Config.SelfHealing.SemiAutomaticRiskThreshold
	approvalCfg.BusinessHoursRequireApproval = deps.Config.SelfHealing.BusinessHoursRequireApproval
	if deps.Config.SelfHealing.ApprovalTTL > 0 {
		approvalCfg.DefaultTTL = deps.Config.SelfHealing.ApprovalTTL
	}
	approvalManager := service.NewApprovalManager(approvalCfg, deps.ApprovalRepo)

	// C9 Resolution Selector
	selectorCfg := service.DefaultResolutionSelectorConfig()
	selectorCfg.Mode = approvalCfg.Mode
	if deps.Config.SelfHealing.MaxAttempts > 0 {
		selectorCfg.MaxAttempts = deps.Config.SelfHealing.MaxAttempts
	}
	resolutionSelector := service.NewResolutionSelector(selectorCfg, deps.HealingActionRepo, confidenceScorer, impactAnalyzer, approvalManager)

	// Query/lifecycle-management surface over alerts (C4 covers creation).
	alertService := service.NewAlertService(deps.AlertRepo, deps.CacheRepo)

	if alertProducer != nil {
		alertGenerator.SetEventProducer(alertProducer)
		escalationManager.SetEventProducer(alertProducer)
		approvalManager.SetEventProducer(alertProducer)
		resolutionSelector.SetEventProducer(alertProducer)
		alertService.SetEventProducer(alertProducer)
	}

	// Create handlers
	healthHandler := handler.NewHealthHandler(deps.Config)
	alertHandler := handler.NewAlertHandler(alertService, alertGenerator)
	webhookHandler := handler.NewWebhookHandler(alertGenerator)
	approvalHandler := handler.NewApprovalHandler(approvalManager)
	resolutionHandler := handler.NewResolutionHandler(resolutionSelector)
	adminHandler := handler.NewAdminHandler(deps.DeadLetterProcessor, deps.EventWorker, cbRegistry)

	// Live dashboard push, independent of the event-bus audit trail.
	if deps.WSHub != nil {
		wsPublisher := websocket.NewAlertPublisher(deps.WSHub)
		alertHandler.SetWSPublisher(wsPublisher)
		approvalHandler.SetWSPublisher(wsPublisher)
	}

	// Create middleware
	apiRateLimiter := middleware.APIRateLimiter(deps.CacheRepo)
	alertRateLimiter := middleware.AlertCreationRateLimiter(deps.CacheRepo)

	// WebSocket handler
	wsHandler := websocket.NewHandler(deps.WSHub)

	// Health routes (no auth required)
	app.Get("/health", healthHandler.Check)
	app.Get("/ready", healthHandler.Ready)
	app.Get("/live", healthHandler.Live)

	// Swagger documentation
	app.Get("/swagger/*", swagger.WrapHandler)

	// API v1 routes
	v1 := app.Group("/api/v1")
	v1.Use(apiRateLimiter.Limit())

	// Alert routes
	alerts := v1.Group("/alerts")
	alerts.Get("/", alertHandler.List)
	alerts.Get("/statistics", alertHandler.GetStatistics)
	alerts.Post("/", alertRateLimiter.LimitByEndpoint(), alertHandler.Create)
	alerts.Get("/:id", alertHandler.GetByID)
	alerts.Post("/:id/acknowledge", alertHandler.Acknowledge)
	alerts.Post("/:id/resolve", alertHandler.Resolve)

	// Webhook routes (external systems feeding alerts in)
	webhooks := v1.Group("/webhooks")
	webhooks.Post("/alertmanager", webhookHandler.AlertManagerWebhookHandler)

	// Approval routes (human-in-the-loop gate on semi-automatic resolutions)
	approvals := v1.Group("/approvals")
	approvals.Get("/:id", approvalHandler.GetByID)
	approvals.Post("/:id/approve", approvalHandler.Approve)
	approvals.Post("/:id/reject", approvalHandler.Reject)

	// Resolution routes
	resolutions := v1.Group("/resolutions")
	resolutions.Get("/:id", resolutionHandler.GetByID)
	v1.Get("/issues/:issueId/resolutions", resolutionHandler.ListForIssue)

	// Admin routes
	admin := v1.Group("/admin")
	admin.Get("/failed-events", adminHandler.GetFailedEvents)
	admin.Post("/failed-events/:id/retry", adminHandler.RetryFailedEvent)
	admin.Post("/failed-events/:id/ignore", adminHandler.IgnoreFailedEvent)
	admin.Get("/metrics/events", adminHandler.GetEventMetrics)
	admin.Get("/circuit-breakers", adminHandler.GetCircuitBreakerStats)

	// WebSocket route
	app.Use("/ws", wsHandler.Upgrade)
	app.Get("/ws", fiberws.New(wsHandler.Handle))

	return app
}

// buildNotifiers wires each enabled notification channel behind a circuit
// breaker, per channel, so a flapping Teams webhook can't sour email
// delivery and vice versa.
func buildNotifiers(cfg *config.Config, cbRegistry *circuitbreaker.Registry) map[notification.Channel]notification.Notifier {
	notifiers := make(map[notification.Channel]notification.Notifier)

	if cfg.Notifications.Teams.Enabled {
		teams := infranotification.NewTeamsNotifier(cfg.Notifications.Teams)
		cb := cbRegistry.GetWithConfig(circuitbreaker.DefaultConfig("notifier:teams"))
		notifiers[notification.ChannelTeams] = infranotification.NewResilientNotifier(teams, cb)
	}

	if cfg.Notifications.Email.Enabled {
		email := infranotification.NewEmailNotifier(cfg.Notifications.Email)
		cb := cbRegistry.GetWithConfig(circuitbreaker.DefaultConfig("notifier:email"))
		notifiers[notification.ChannelEmail] = infranotification.NewResilientNotifier(email, cb)
	}

	return notifiers
}

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.App.IsDevelopment(),
	}))

	app.Use(requestid.New())

	if cfg.App.IsDevelopment() {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${method} ${path}\n",
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
