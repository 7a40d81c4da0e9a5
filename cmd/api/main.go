package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rakhadjo/vidlearn/internal/application"
	appanalysis "github.com/rakhadjo/vidlearn/internal/application/analysis"
	appquiz "github.com/rakhadjo/vidlearn/internal/application/quiz"
	"github.com/rakhadjo/vidlearn/internal/config"
	domain "github.com/rakhadjo/vidlearn/internal/domain/analysis"
	openaiclient "github.com/rakhadjo/vidlearn/internal/infra/ai/openai"
	mysqlp "github.com/rakhadjo/vidlearn/internal/infra/db/mysql"
	postgresp "github.com/rakhadjo/vidlearn/internal/infra/db/postgres"
	"github.com/rakhadjo/vidlearn/internal/infra/httpserver"
	minioStore "github.com/rakhadjo/vidlearn/internal/infra/storage"
	"github.com/rakhadjo/vidlearn/internal/infra/transcript/youtube"
	"github.com/rakhadjo/vidlearn/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwtSecret is required")
	}
	if cfg.OpenAI.APIKey == "" {
		log.Println("openai api key not configured, analyses will use mock content")
	}

	ctx := context.Background()

	// connect database (driver switch: mysql or postgres)
	var (
		db   *sql.DB
		repo domain.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewAnalysisRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewAnalysisRepository(db)
	}
	defer db.Close()

	// init transcript archive (optional)
	var archive domain.TranscriptArchive
	if cfg.Archive.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// init providers
	generator := openaiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	fetcher := youtube.NewClient(15 * time.Second)

	// init services
	analysisSvc := &appanalysis.Service{
		Repo:        repo,
		Transcripts: fetcher,
		Generator:   generator,
		Archive:     archive,
		Clock:       application.SystemClock{},
	}
	quizSvc := &appquiz.Service{Repo: repo}

	// rate limit defaults
	capacity, refill := cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate
	if capacity <= 0 {
		capacity = 30
	}
	if refill <= 0 {
		refill = 1
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Use(middleware.JWTAuth([]byte(cfg.Auth.JWTSecret)))
		rt.Use(middleware.RateLimitMiddleware(capacity, refill))
		rt.Mount("/", httpserver.NewRouter(analysisSvc, quizSvc))
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
