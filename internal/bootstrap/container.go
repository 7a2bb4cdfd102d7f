package bootstrap

import (
	"log"

	"semantic-docstore-be/internal/config"
	"semantic-docstore-be/internal/controller"
	"semantic-docstore-be/internal/pkg/logger"
	"semantic-docstore-be/internal/repository/memory"
	"semantic-docstore-be/internal/repository/unitofwork"
	"semantic-docstore-be/internal/service"
	"semantic-docstore-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	ClusterController  controller.IClusterController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	clusterCache := memory.NewClusterCacheRepository(cfg.Cluster.CacheTTL)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Services
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	modelName := cfg.Ai.OllamaModel
	if cfg.Ai.EmbeddingProvider == "gemini" {
		// The lazy wrapper maps any provider failure (bad key,
		// unreachable API) to model-unavailable. Gemini carries no
		// readiness probe, so errors only surface on Generate.
		embeddingProvider = embedding.NewLazyProvider(embedding.NewGeminiProvider(cfg.Keys.GoogleGemini))
		modelName = "text-embedding-004"
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		// The model is probed on first use, not at startup, so the service
		// comes up even when Ollama is still pulling the model.
		embeddingProvider = embedding.NewLazyProvider(embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		))
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	publisherService := service.NewPublisherService(cfg.Keys.DocumentChangedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.DocumentChangedTopic,
		clusterCache,
	)

	documentService := service.NewDocumentService(
		uowFactory,
		publisherService,
		embeddingProvider,
		clusterCache,
		cfg.Ai.EmbeddingDimension,
		modelName,
	)
	clusterService := service.NewClusterService(uowFactory, clusterCache, sysLogger)
	searchService := service.NewSearchService(uowFactory, embeddingProvider, clusterService)

	// 4. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(documentService, searchService),
		ClusterController:  controller.NewClusterController(clusterService),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
