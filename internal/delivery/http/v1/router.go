package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/auth"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	UserAdminUC    domain.UserAdminUsecase
	JobUC          domain.JobUsecase
	ApplicationUC  domain.ApplicationUsecase
	NotificationUC domain.NotificationUsecase
	ProfileUC      domain.ProfileUsecase
	CvParseUC      domain.CvParseUsecase
	MatchingUC     domain.MatchingUsecase
	Tokens         *auth.TokenManager
	Revoked        *auth.RevocationList
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// CORS must run before anything that can short-circuit the request.
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig()))

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.Revoked, deps.AuthUC))

	// Worker callbacks authenticate with a shared token, not a user session.
	worker := v1.Group("/worker")
	worker.Use(middleware.WorkerAuth(deps.Config.WorkerToken))

	NewAuthHandler(v1, protected, deps.AuthUC, deps.Config)
	NewAdminHandler(protected, deps.UserAdminUC)
	NewJobHandler(v1, protected, deps.JobUC)
	NewApplicationHandler(protected, deps.ApplicationUC)
	NewNotificationHandler(protected, deps.NotificationUC)
	NewProfileHandler(protected, deps.ProfileUC)
	NewCvParseHandler(protected, worker, deps.CvParseUC)
	NewMatchingHandler(protected, worker, deps.MatchingUC)

	return r
}
