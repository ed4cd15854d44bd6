package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/repository"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/config"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/database"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/messaging"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/worker"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/http/router"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/presentation/websocket"
)

// TestApp holds the test application and its dependencies.
type TestApp struct {
	App               *fiber.App
	Config            *config.Config
	DB                *database.PostgresDB
	Redis             *database.RedisClient
	AlertRepo         repository.AlertRepository
	ApprovalRepo      repository.ApprovalRepository
	HealingActionRepo repository.HealingActionRepository
	CacheRepo         repository.CacheRepository
	EventWorker       *worker.EventWorker
	DeadLetter        *worker.DeadLetterProcessor
}

// SetupTestApp creates a test application with real database connections.
func SetupTestApp(t *testing.T) *TestApp {
	t.Helper()

	// Load test configuration
	cfg := &config.Config{
		App: config.AppConfig{
			Name:    "test-app",
			Env:     "test",
			Version: "1.0.0",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         8081,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		Database: config.DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Name:     "alerting_db",
			SSLMode:  "disable",
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     6379,
			Password: "",
			DB:       1, // Use different DB for tests
		},
		EventBus: config.EventBusConfig{
			ConsumerID:     "test-worker",
			MaxRetries:     3,
			InitialBackoff: 10 * time.Millisecond,
			MaxBackoff:     100 * time.Millisecond,
			Multiplier:     2.0,
		},
		Alerting: config.AlertingConfig{
			CorrelationWindowSeconds: 300,
			GroupTTLSeconds:          3600,
			RateLimitCount:           10,
			RateLimitSeconds:         60,
			MaxConcurrentAlerts:      10,
		},
		Escalation: config.EscalationConfig{
			IntervalSeconds: 60,
		},
		SelfHealing: config.SelfHealingConfig{
			Mode:                       "semi_automatic",
			ConfidenceThreshold:        0.85,
			MinHistorySamples:          5,
			AutomaticRiskThreshold:     0.8,
			SemiAutomaticRiskThreshold: 0.5,
			ApprovalTTL:                24 * time.Hour,
			MaxAttempts:                3,
		},
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		t.Skipf("Skipping integration test: %v", err)
	}

	// Connect to Redis
	redis, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		_ = db.Close()
		t.Skipf("Skipping integration test: %v", err)
	}

	// Clear rate limiting keys before each test
	clearRateLimiting(redis)

	// Create repositories
	alertRepo := database.NewPostgresAlertRepository(db)
	approvalRepo := database.NewRedisApprovalRepository(redis)
	healingActionRepo := database.NewPostgresHealingActionRepository(db)
	cacheRepo := database.NewRedisCacheRepository(redis)

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create event bus and workers
	eventBus := messaging.NewRedisStreamBus(redis.GetClient(), cfg.EventBus.ConsumerID)
	retryableBus := messaging.NewRetryableBus(eventBus, messaging.RetryConfig{
		MaxRetries:     cfg.EventBus.MaxRetries,
		InitialBackoff: cfg.EventBus.InitialBackoff,
		MaxBackoff:     cfg.EventBus.MaxBackoff,
		Multiplier:     cfg.EventBus.Multiplier,
		Jitter:         true,
	})
	eventWorker := worker.NewEventWorker(retryableBus)
	_ = eventWorker.Start()
	deadLetter := worker.NewDeadLetterProcessor(retryableBus, cacheRepo)
	_ = deadLetter.Start()

	// Setup router
	app := router.Setup(router.Dependencies{
		Config:              cfg,
		AlertRepo:           alertRepo,
		ApprovalRepo:        approvalRepo,
		HealingActionRepo:   healingActionRepo,
		CacheRepo:           cacheRepo,
		WSHub:               wsHub,
		EventBus:            retryableBus,
		EventWorker:         eventWorker,
		DeadLetterProcessor: deadLetter,
	})

	return &TestApp{
		App:               app,
		Config:            cfg,
		DB:                db,
		Redis:             redis,
		AlertRepo:         alertRepo,
		ApprovalRepo:      approvalRepo,
		HealingActionRepo: healingActionRepo,
		CacheRepo:         cacheRepo,
		EventWorker:       eventWorker,
		DeadLetter:        deadLetter,
	}
}

// clearRateLimiting clears all rate limiting keys from Redis.
func clearRateLimiting(redis *database.RedisClient) {
	ctx := context.Background()
	// FlushDB clears all keys in the test database (DB 1)
	_ = redis.FlushDB(ctx)
}

// Cleanup cleans up test resources.
func (ta *TestApp) Cleanup(t *testing.T) {
	t.Helper()

	// Clear test data
	ctx := context.Background()
	_, _ = ta.DB.ExecContext(ctx, "DELETE FROM alerts WHERE alert_type LIKE 'test%'")

	// Clear rate limiting
	clearRateLimiting(ta.Redis)

	// Stop workers
	_ = ta.EventWorker.Stop()
	_ = ta.DeadLetter.Stop()

	// Close connections
	_ = ta.Redis.Close()
	_ = ta.DB.Close()
}

// MakeRequest makes an HTTP request to the test app.
func (ta *TestApp) MakeRequest(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := ta.App.Test(req, -1)
	defer func() { _ = resp.Body.Close() }()

	// Convert to ResponseRecorder for compatibility
	recorder := httptest.NewRecorder()
	recorder.Code = resp.StatusCode

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	recorder.Body = buf

	return recorder
}
