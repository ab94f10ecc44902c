package v1

import (
	"net/http"
	"time"

	"go-recruitment-crm/config"
	"go-recruitment-crm/docs"
	"go-recruitment-crm/internal/delivery/http/middleware"
	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/internal/usecase"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	UserUC        domain.UserUsecase
	CandidateUC   domain.CandidateUsecase
	CompanyUC     domain.CompanyUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	SkillUC       domain.SkillUsecase
	MessagingUC   domain.MessagingUsecase
	CalendarUC    domain.CalendarUsecase
	AIUC          domain.AIUsecase
	AnalyticsUC   domain.AnalyticsUsecase
	AdminUC       domain.AdminUsecase
	OfficeUC      domain.OfficeUsecase
	SearchUC      domain.SearchUsecase
	Health        usecase.HealthUsecase
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins, cfg.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	r.NoRoute(middleware.NoRoute)
	r.NoMethod(middleware.NoMethod)

	api := r.Group("/api/v1")

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		report := deps.Health.Check(c.Request.Context())
		if report.Status == usecase.HealthDown {
			var errs []apperror.FieldError
			for name, status := range report.Checks {
				if status == usecase.HealthDown {
					errs = append(errs, apperror.FieldError{Code: apperror.KindServer, Field: name, Message: name + " is unreachable"})
				}
			}
			response.Error(c, http.StatusServiceUnavailable, "System unavailable", errs)
			return
		}
		response.Success(c, http.StatusOK, "System "+report.Status, report)
	})

	// Swagger
	docs.SwaggerInfo.BasePath = "/api/v1"
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	strictLimit := middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(cfg.RateLimitLoginThreshold, window))
	aiLimit := middleware.RateLimitMiddleware(middleware.AIRateLimitConfig(cfg.AIUserLimitPerMin, time.Minute))

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC))
	{
		NewAuthHandler(api, protected, deps.AuthUC, strictLimit)
		NewUserHandler(protected, deps.UserUC)
		NewCandidateHandler(protected, deps.CandidateUC)
		NewCompanyHandler(protected, deps.CompanyUC)
		NewJobHandler(protected, deps.JobUC)
		NewApplicationHandler(protected, deps.ApplicationUC)
		NewSkillHandler(protected, deps.SkillUC)
		NewMessagingHandler(protected, deps.MessagingUC)
		NewCalendarHandler(protected, deps.CalendarUC)
		NewAIHandler(protected, deps.AIUC, aiLimit)
		NewAnalyticsHandler(protected, deps.AnalyticsUC)
		NewAdminHandler(protected, deps.AdminUC)
		NewOfficeHandler(protected, deps.OfficeUC)
		NewSearchHandler(protected, deps.SearchUC)
	}

	return r
}
