package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ChaymaBrk/conv-AI/internal/ai"
	"github.com/ChaymaBrk/conv-AI/internal/config"
	"github.com/ChaymaBrk/conv-AI/internal/model"
	mysqlClient "github.com/ChaymaBrk/conv-AI/internal/platform/mysql"
	rabbitmqClient "github.com/ChaymaBrk/conv-AI/internal/platform/rabbitmq"
	redisClient "github.com/ChaymaBrk/conv-AI/internal/platform/redis"
	"github.com/ChaymaBrk/conv-AI/internal/rag"
	"github.com/ChaymaBrk/conv-AI/internal/repository"
	"github.com/ChaymaBrk/conv-AI/internal/worker"
)

// App aggregates every long-lived handle the server needs. Handles are
// opened here at process start and released in Close, so nothing in the
// request path owns module-level connection state.
type App struct {
	Config        *config.Config
	MySQL         *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	LLM           *ai.OpenAICompatibleClient
	VectorIndex   *rag.VectorIndex
	Pipeline      *rag.Pipeline
	MessageWorker *worker.MessagePersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.Message{}, &model.Document{}, &model.DocumentPage{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	llmClient := ai.NewOpenAICompatibleClient()
	embedder := rag.NewEmbedder(llmClient, ai.EmbeddingConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.EmbeddingModel,
	})

	vectorIndex, err := rag.NewVectorIndex(cfg.RAG.DataDir, cfg.RAG.Collection, embedder.EmbeddingFunc())
	if err != nil {
		return nil, err
	}
	pipeline := rag.NewPipeline(vectorIndex, embedder, cfg.RAG.SourceDocument, cfg.RAG.ChunkSize)

	messageRepo := repository.NewMessageRepository(mysqlDB)
	messageWorker := worker.NewMessagePersistWorker(mqConn, messageRepo, cfg.RabbitMQ.MessagePersistQueue)
	if err := messageWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start message worker failed: %w", err)
	}

	return &App{
		Config:        cfg,
		MySQL:         mysqlDB,
		Redis:         redisCli,
		MQConn:        mqConn,
		LLM:           llmClient,
		VectorIndex:   vectorIndex,
		Pipeline:      pipeline,
		MessageWorker: messageWorker,
		StartedAt:     time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MessageWorker != nil {
		a.MessageWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
