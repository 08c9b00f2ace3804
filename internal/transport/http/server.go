package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ChaymaBrk/conv-AI/internal/ai"
	appsvc "github.com/ChaymaBrk/conv-AI/internal/app"
	"github.com/ChaymaBrk/conv-AI/internal/bootstrap"
	"github.com/ChaymaBrk/conv-AI/internal/cache"
	"github.com/ChaymaBrk/conv-AI/internal/classify"
	"github.com/ChaymaBrk/conv-AI/internal/platform/rabbitmq"
	"github.com/ChaymaBrk/conv-AI/internal/rag"
	"github.com/ChaymaBrk/conv-AI/internal/repository"
	"github.com/ChaymaBrk/conv-AI/internal/transport/http/handler"
	"github.com/ChaymaBrk/conv-AI/internal/weather"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	cfg := app.Config

	messageRepo := repository.NewMessageRepository(app.MySQL)
	documentRepo := repository.NewDocumentRepository(app.MySQL)

	classifier := classify.NewClassifier(app.LLM, ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	responder := rag.NewResponder(app.LLM, ai.ChatConfig{
		BaseURL: cfg.Generation.BaseURL,
		APIKey:  cfg.Generation.APIKey,
		Model:   cfg.Generation.Model,
	})

	weatherClient := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey)
	weatherCache := cache.NewWeatherCache(app.Redis, time.Duration(cfg.Weather.CacheTTLSeconds)*time.Second)
	cachedWeather := cache.NewCachedWeatherClient(weatherClient, weatherCache)

	publisher := rabbitmq.NewMessagePublisher(app.MQConn, cfg.RabbitMQ.MessagePersistQueue)

	chatService := appsvc.NewChatService(
		classifier,
		app.Pipeline,
		responder,
		cachedWeather,
		publisher,
		messageRepo,
		weather.Query{Latitude: cfg.Weather.Latitude, Longitude: cfg.Weather.Longitude},
		cfg.RAG.TopK,
	)
	documentService := appsvc.NewDocumentService(documentRepo, app.Pipeline, cfg.RAG.UploadsDir)

	chatHandler := handler.NewChatHandler(chatService)
	documentHandler := handler.NewDocumentHandler(documentService)
	healthHandler := handler.NewHealthHandler(app)

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Welcome to the AI Assistant API"})
	})
	router.GET("/healthz", healthHandler.Check)

	router.POST("/messages", chatHandler.HandleMessage)
	router.GET("/messages", chatHandler.GetHistory)
	router.POST("/documents", documentHandler.Upload)
	router.GET("/documents", documentHandler.List)

	return router
}
