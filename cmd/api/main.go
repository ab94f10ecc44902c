package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-recruitment-crm/config"
	_ "go-recruitment-crm/docs" // Important for Swagger
	v1 "go-recruitment-crm/internal/delivery/http/v1"
	"go-recruitment-crm/internal/repository/postgres"
	"go-recruitment-crm/internal/usecase"
	"go-recruitment-crm/pkg/auth"
	"go-recruitment-crm/pkg/database"
	"go-recruitment-crm/pkg/email"
	"go-recruitment-crm/pkg/llm"
	"go-recruitment-crm/pkg/logger"
	"go-recruitment-crm/pkg/markdown"
	"go-recruitment-crm/pkg/mq"
	"go-recruitment-crm/pkg/obs"
	"go-recruitment-crm/pkg/redis"
	"go-recruitment-crm/pkg/security"
	"go-recruitment-crm/pkg/storage"

	"github.com/gin-gonic/gin"
)

var version = "dev"

// @title           Recruitment CRM API
// @version         1.0
// @description     Recruitment CRM backend: candidates, companies, jobs, pipelines, messaging and AI assistance.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting recruitment CRM", "port", cfg.Port, "version", version)

	env := "development"
	if cfg.IsProduction() {
		env = "production"
	}
	secLog := security.InitSecurityLogger(cfg.ServiceName, env)
	defer func() { _ = secLog.Sync() }()

	ctx := context.Background()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.ServiceName, env, cfg.OTELEndpoint)
	if err != nil {
		logger.Log.Warn("Tracing disabled", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }()
	}

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.AutoMigrate {
		applied, err := database.Migrate(ctx, dbPool)
		if err != nil {
			logger.Log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		logger.Log.Info("Migrations applied", "count", len(applied))
	}

	securityRepo := security.NewSecurityEventRepository(dbPool)
	if cfg.SecurityLogToDB {
		secLog.SetPersistFunc(securityRepo.CreatePersistFunc())
	}

	// 4. Setup Redis (optional)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory fallbacks", "error", err)
	}
	defer func() { _ = redis.Close() }()

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	companyRepo := postgres.NewCompanyRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	skillRepo := postgres.NewSkillRepository(dbPool)
	conversationRepo := postgres.NewConversationRepository(dbPool)
	calendarRepo := postgres.NewCalendarRepository(dbPool)
	analyticsRepo := postgres.NewAnalyticsRepository(dbPool)
	officeRepo := postgres.NewOfficeRepository(dbPool)
	consultantRepo := postgres.NewConsultantRepository(dbPool)
	searchRepo := postgres.NewSearchRepository(dbPool)

	// 6. Setup Services
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - outbound mail is disabled")
	}
	md := markdown.NewRenderer()

	var publisher mq.Publisher = mq.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := mq.NewPublisher(cfg.RabbitMQURL, cfg.EventsExchange, cfg.ServiceName)
		if err != nil {
			logger.Log.Warn("RabbitMQ unavailable, events are dropped", "error", err)
		} else {
			publisher = p
		}
	}
	defer func() { _ = publisher.Close() }()

	var llmCache llm.Cache
	if c := redis.Client(); c != nil {
		llmCache = llm.NewRedisCache(c)
	}
	provider, err := llm.NewFromConfig(ctx, cfg, llmCache)
	if err != nil {
		logger.Log.Warn("AI provider not configured", "error", err)
	}

	var exportStore usecase.ObjectStore
	var storeCheck *usecase.HealthCheck
	if cfg.S3Bucket != "" {
		store, err := storage.NewObjectStore(ctx, storage.Config{
			Provider:        storage.Provider(cfg.S3Provider),
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			logger.Log.Warn("Export archive disabled", "error", err)
		} else {
			exportStore = store
			storeCheck = &usecase.HealthCheck{Name: "object_store", Ping: store.Ping}
		}
	}

	// 7. Setup Auth
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if cfg.JWKSURL != "" {
		tokens.WithJWKS(auth.NewProvider(cfg.JWKSURL))
	}
	loginTracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		UseIPTracking: true,
	}).WithLogger(secLog)

	// 8. Setup UseCases
	authUC := usecase.NewAuthUsecase(userRepo, tokens, auth.NewRevocationStore(), loginTracker, secLog, cfg.ServiceName)
	userUC := usecase.NewUserUsecase(userRepo)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, skillRepo, applicationRepo, publisher)
	companyUC := usecase.NewCompanyUsecase(companyRepo, jobRepo)
	jobUC := usecase.NewJobUsecase(jobRepo, companyRepo, skillRepo, applicationRepo)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, candidateRepo, jobRepo, publisher)
	skillUC := usecase.NewSkillUsecase(skillRepo)
	messagingUC := usecase.NewMessagingUsecase(conversationRepo, userRepo, candidateRepo, md, emailService, publisher)
	calendarUC := usecase.NewCalendarUsecase(calendarRepo, candidateRepo, applicationRepo)
	aiUC := usecase.NewAIUsecase(provider, md, candidateRepo, jobRepo, companyRepo, skillRepo, applicationRepo, userRepo)
	analyticsUC := usecase.NewAnalyticsUsecase(analyticsRepo, exportStore, secLog)
	adminUC := usecase.NewAdminUsecase(userRepo, securityRepo, secLog)
	officeUC := usecase.NewOfficeUsecase(officeRepo, consultantRepo, userRepo)
	searchUC := usecase.NewSearchUsecase(searchRepo)

	checks := []usecase.HealthCheck{
		{Name: "database", Critical: true, Ping: dbPool.Ping},
	}
	if redis.Client() != nil {
		checks = append(checks, usecase.HealthCheck{Name: "redis", Ping: redis.HealthCheck})
	}
	if storeCheck != nil {
		checks = append(checks, *storeCheck)
	}
	healthUC := usecase.NewHealthUsecase(version, checks...)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		CandidateUC:   candidateUC,
		CompanyUC:     companyUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		SkillUC:       skillUC,
		MessagingUC:   messagingUC,
		CalendarUC:    calendarUC,
		AIUC:          aiUC,
		AnalyticsUC:   analyticsUC,
		AdminUC:       adminUC,
		OfficeUC:      officeUC,
		SearchUC:      searchUC,
		Health:        healthUC,
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
