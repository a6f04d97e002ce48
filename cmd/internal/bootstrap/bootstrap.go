// Package bootstrap wires the chat service the same way for every binary.
package bootstrap

import (
	"context"
	"fmt"

	"chat-session/completion"
	"chat-session/config"
	"chat-session/db"
	"chat-session/eventbus"
	"chat-session/httpclient"
	"chat-session/logger"
	"chat-session/quota"
	"chat-session/repositories"
	"chat-session/services"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// App holds the composed chat service and the resources that must be released.
type App struct {
	Chat   *services.ChatService
	Store  string
	Health func(ctx context.Context) error
	Quota  *quota.CompletionQuotaLimiter

	closers []func(ctx context.Context)
}

// New builds the persistence gateway, completer, event publisher and chat service from cfg.
func New(ctx context.Context, cfg config.AppConfig) (*App, error) {
	// db.Init 은 전역 설정을 읽으므로 CLI 플래그로 바뀐 값을 먼저 반영한다.
	config.Set(&cfg)
	app := &App{Store: cfg.Store.Backend}

	var (
		repo   services.ChatRepository
		aiLogs completion.AILogRecorder
	)
	switch cfg.Store.Backend {
	case StoreMongo:
		// MongoDB 초기화
		if err := db.Init(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		app.closers = append(app.closers, func(ctx context.Context) {
			if err := db.Disconnect(ctx); err != nil {
				logger.Log.Warnf("mongo disconnect failed: %v", err)
			}
		})
		store := repositories.NewChatStore(db.Database(), cfg.Mongo.UseTransactions)
		if !store.Atomic() {
			logger.Log.Warn("mongo.use_transactions is off; prompt/reply upserts and session deletes are not atomic")
		}
		repo = store
		aiLogs = repositories.NewAILogRepository(db.Database())
		app.Health = db.Ping
	case StoreMemory:
		logger.Log.Warn("using in-memory store; sessions are lost on exit")
		repo = repositories.NewMemoryChatStore()
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}

	limiter := quota.NewCompletionQuotaLimiter(cfg.CompletionQuota)
	app.Quota = limiter
	completer, err := completion.New(ctx, cfg.LLM, httpclient.NewDefault(), limiter, aiLogs)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	var eventService *services.EventService
	if cfg.Events.Enabled {
		brokers, err := eventbus.GetBrokers()
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
		if err := eventbus.EnsureTopic(brokers, cfg.Events.Topic, cfg.Events.Partitions); err != nil {
			logger.Log.Warnf("failed to ensure event topic: %v", err)
		}
		bus, err := eventbus.NewKafkaEventBus(brokers)
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("failed to create event bus: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) { bus.Close() })
		eventService = services.NewEventService(bus, cfg.Events.Topic)
		logger.Log.Infof("publishing chat events to %s", cfg.Events.Topic)
	}

	app.Chat = services.NewChatService(repo, completer, eventService)

	logger.InfoWithFields("chat service ready", logger.Fields{
		"store":      cfg.Store.Backend,
		"provider":   cfg.LLM.Provider,
		"model_name": cfg.LLM.ModelName,
		"max_tokens": completer.MaxTokens(),
		"events":     cfg.Events.Enabled,
	})
	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
	a.closers = nil
}
