/*
Copyright © 2025 docuchat
*/
package cmd

import (
	"context"
	"log"

	"github.com/docuchat/pdf-gpt-be/config"
	"github.com/docuchat/pdf-gpt-be/database"
	"github.com/docuchat/pdf-gpt-be/handler"
	"github.com/docuchat/pdf-gpt-be/repository"
	"github.com/docuchat/pdf-gpt-be/service"
	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the PDF chat server",
	Long:  `Starts the server that handles PDF uploads and chat requests`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		defer logger.Sync()

		// Vector index: in-memory for single-process deployments, Weaviate
		// when a cluster is configured
		var vectorIndex database.VectorIndex
		switch cfg.VectorStore {
		case "weaviate":
			weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
			if err != nil {
				logger.Fatal("Failed to connect to Weaviate", zap.Error(err))
			}
			vectorIndex = weaviateDb
		default:
			vectorIndex = database.NewMemoryStore()
		}

		// Session store: MongoDB with a TTL index when configured,
		// process memory otherwise
		var sessionStore repository.SessionStore
		if cfg.MongoURI != "" {
			mongoClient, err := database.NewMongoClient(context.Background(), cfg.MongoURI)
			if err != nil {
				logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
			}
			sessionStore, err = repository.NewSessionRepo(
				context.Background(),
				mongoClient.Database("pdfgpt").Collection("sessions"),
			)
			if err != nil {
				logger.Fatal("Failed to initialize session store", zap.Error(err))
			}
		} else {
			sessionStore = repository.NewMemorySessionStore()
		}

		// Initialize services
		pdfService := service.NewPDFService(
			types.DocumentServiceConfig{
				MaxChunkSize: cfg.MaxChunkSize,
				OverlapSize:  cfg.OverlapSize,
			}, nil, logger)

		embedder := service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		indexService := service.NewIndexService(embedder, vectorIndex, cfg.TopK, logger)

		openaiService := service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model)
		var geminiService service.Generator
		if len(cfg.GeminiAPIKeys) > 0 {
			gs, err := service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model)
			if err != nil {
				logger.Warn("Gemini disabled", zap.Error(err))
			} else {
				geminiService = gs
			}
		}
		generator := service.NewModelRouter(openaiService, geminiService)

		chatService := service.NewChatService(pdfService, indexService, generator, sessionStore, cfg.SessionTTL, logger)
		wsService := service.NewWebSocketService(chatService, logger)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		chatHandler := handler.NewChatHandler(chatService, cfg.UploadDir)
		sessionHandler := handler.NewSessionHandler(chatService)

		// Setup Gin router
		router := gin.Default()

		// Apply global middleware
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/chat", chatHandler.HandleChat)
			apiV1.POST("/session/reset", sessionHandler.HandleReset)
			apiV1.POST("/session/model", sessionHandler.HandleSelectModel)
			apiV1.GET("/session/history", sessionHandler.HandleHistory)
		}
		router.GET("/ws/chat", gin.WrapF(wsService.HandleChat))
		router.GET("/health", gin.WrapH(wsService.Health()))

		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := router.Run(":" + cfg.Port); err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
