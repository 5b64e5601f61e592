package bootstrap

import (
	"context"
	"log"

	"policy-chat-be/internal/config"
	"policy-chat-be/internal/controller"
	"policy-chat-be/internal/pkg/logger"
	"policy-chat-be/internal/repository/implementation"
	"policy-chat-be/internal/repository/memory"
	"policy-chat-be/internal/repository/unitofwork"
	"policy-chat-be/internal/service"
	"policy-chat-be/pkg/crossencoder"
	"policy-chat-be/pkg/crossencoder/jina"
	"policy-chat-be/pkg/embedding"
	embeddingJina "policy-chat-be/pkg/embedding/jina"
	"policy-chat-be/pkg/llm/factory"
	"policy-chat-be/pkg/rag/executor"
	"policy-chat-be/pkg/rag/rerank"
	"policy-chat-be/pkg/rag/search"

	pktNats "policy-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// System logger, exposed for shutdown flushing
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = embeddingJina.NewJinaProvider(cfg.Ai.JinaAPIKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	sessionRepo := memory.NewSessionRepository()

	// 5. Query Pipeline
	ragLogger := service.InitRagLogger()

	chunkIndex := implementation.NewPolicyChunkRepository(db)
	retriever := search.NewRetriever(embeddingProvider, chunkIndex, cfg.Pipeline, ragLogger)

	var crossEncoder crossencoder.Client
	if cfg.Ai.JinaAPIKey != "" {
		crossEncoder = jina.NewJinaReranker(cfg.Ai.JinaAPIKey)
		log.Printf("[INFO] Cross-encoder reranking enabled (JINA)")
	} else {
		log.Printf("[WARN] No JINA_API_KEY, reranking disabled; retrieval order is final")
	}
	reranker := rerank.NewReranker(crossEncoder, cfg.Pipeline, ragLogger)

	pipeline := executor.NewPipeline(
		retriever,
		reranker,
		llmProvider,
		sessionRepo,
		cfg.Pipeline,
		ragLogger,
	)

	// 6. Services
	chatService := service.NewChatService(uowFactory, pipeline, sessionRepo, natsPub, ragLogger)
	feedbackService := service.NewFeedbackService(pubSub, cfg.App.FeedbackTopic, uowFactory)
	consumerService := service.NewConsumerService(pubSub, cfg.App.FeedbackTopic, uowFactory, natsPub)

	// 7. Controllers
	return &Container{
		ChatController: controller.NewChatController(
			chatService,
			feedbackService,
			rdb,
			cfg.App.ChatRateLimit,
			cfg.App.ChatRateWindow,
		),
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
