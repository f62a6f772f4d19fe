package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/sargiotti/BackEndServer/artifacts"
	"github.com/sargiotti/BackEndServer/cloud"
	"github.com/sargiotti/BackEndServer/config"
	"github.com/sargiotti/BackEndServer/handlers"
	"github.com/sargiotti/BackEndServer/logger"
	"github.com/sargiotti/BackEndServer/media"
	"github.com/sargiotti/BackEndServer/services/pipeline"
	"github.com/sargiotti/BackEndServer/storage"
	"github.com/sargiotti/BackEndServer/validation"
	"github.com/sargiotti/BackEndServer/videoref"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize loggers
	appLogger := logger.New(cfg.Debug)
	accessLogConfig, err := logger.NewAccessLogConfig(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize video reference store
	refs, err := videoref.NewStore(cfg.VideoRefPath)
	if err != nil {
		log.Fatalf("Failed to initialize video reference store: %v", err)
	}

	// Initialize artifact store
	artifactStore, err := artifacts.NewStore(cfg.TempDir)
	if err != nil {
		log.Fatalf("Failed to initialize artifact store: %v", err)
	}

	// Initialize transcoding gateway
	gateway, err := media.NewGateway(media.Config{
		FFmpegPath:  cfg.Media.FFmpegPath,
		FFprobePath: cfg.Media.FFprobePath,
	}, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize media gateway: %v", err)
	}

	// Initialize object storage bridge
	bridge, err := storage.NewBridge(storage.Config{
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		Bucket:    cfg.Storage.Bucket,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage bridge: %v", err)
	}

	// Initialize remote AI client
	aiClient := cloud.NewClient(cloud.Config{
		APIKey:              cfg.Cloud.APIKey,
		BaseURL:             cfg.Cloud.BaseURL,
		TranscriptionModel:  cfg.Cloud.TranscriptionModel,
		ChatModel:           cfg.Cloud.ChatModel,
		SpeechModel:         cfg.Cloud.SpeechModel,
		SpeechVoice:         cfg.Cloud.SpeechVoice,
		RecognitionLanguage: cfg.Cloud.RecognitionLanguage,
		SampleRateHertz:     cfg.Cloud.SampleRateHertz,
		RequestsPerSecond:   cfg.RateLimit.CloudRequestsPerSecond,
		Burst:               cfg.RateLimit.CloudBurst,
	}, appLogger)

	// Initialize validator
	validator := validation.NewValidator()

	// Initialize pipeline service
	pipelineService := pipeline.NewService(
		refs,
		gateway,
		artifactStore,
		bridge,
		aiClient,
		validator,
		pipeline.Config{
			ProbeTimeout:      cfg.Media.ProbeTimeout,
			TranscodeTimeout:  cfg.Media.TranscodeTimeout,
			UploadTimeout:     cfg.Storage.UploadTimeout,
			RemoteTimeout:     cfg.Cloud.RequestTimeout,
			AudioDelivery:     cfg.Pipeline.AudioDelivery,
			TargetLanguage:    cfg.Cloud.TargetLanguage,
			SynthesisLanguage: cfg.Cloud.SynthesisLanguage,
		},
		appLogger,
	)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		IdleTimeout:           cfg.IdleTimeout,
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: !cfg.Debug,
		StrictRouting:         true,
		CaseSensitive:         true,
		AppName:               "backend-server " + cfg.Version,
	})

	// Setup middleware
	setupMiddleware(app, cfg, accessLogConfig)
	app.Use(handlers.WithTimeout(cfg.RequestTimeout))

	// Setup routes
	pipelineHandler := handlers.NewPipelineHandler(pipelineService)

	app.Get("/", pipelineHandler.Root)
	app.Get("/health", handlers.HealthCheck)
	app.Post("/video", pipelineHandler.SetVideo)
	app.Get("/video", pipelineHandler.GetVideo)
	app.Get("/video/metadata", pipelineHandler.Metadata)
	app.Get("/video/audio", pipelineHandler.ExtractAudio)
	app.Get("/video/first-frame", pipelineHandler.FirstFrame)
	app.Post("/processAudio", pipelineHandler.ProcessAudio)
	app.Post("/convertTextToSpeech", pipelineHandler.ConvertTextToSpeech)
	app.Get("/performOCR", pipelineHandler.PerformOCR)

	// Graceful shutdown setup
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	serverAddr := ":" + cfg.ServerPort
	if cfg.Debug {
		log.Printf("Server starting on http://localhost%s", serverAddr)
	}

	if err := app.Listen(serverAddr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

func setupMiddleware(app *fiber.App, cfg *config.Config, logConfig *fiberLogger.Config) {
	if cfg.Middleware.EnableRecover {
		app.Use(recover.New(recover.Config{
			EnableStackTrace: cfg.Debug,
		}))
	}

	if cfg.Middleware.EnableRequestID {
		app.Use(requestid.New(requestid.Config{
			Header: "X-Request-ID",
			Generator: func() string {
				return uuid.New().String()
			},
		}))
	}

	if cfg.Middleware.EnableLogger {
		app.Use(fiberLogger.New(*logConfig))
	}

	if cfg.Middleware.EnableCORS {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.CORS.AllowedOrigins, ","),
			AllowMethods:     strings.Join(cfg.CORS.AllowedMethods, ","),
			AllowHeaders:     strings.Join(cfg.CORS.AllowedHeaders, ","),
			ExposeHeaders:    strings.Join(cfg.CORS.ExposedHeaders, ","),
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}))
	}

	if cfg.Middleware.EnableRateLimit && cfg.RateLimit.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.RequestsPerMinute,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Rate limit exceeded",
				})
			},
		}))
	}

	if cfg.Middleware.EnableCompress {
		app.Use(compress.New(compress.Config{
			Level: compress.LevelDefault,
		}))
	}

	if cfg.Middleware.EnableETag {
		app.Use(etag.New())
	}
}
