package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
	"workplace-api/internal/handler"
	"workplace-api/internal/metrics"
	"workplace-api/internal/middleware"
	"workplace-api/internal/repository"
	"workplace-api/internal/service"
)

// Config holds router configuration
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Tokens         *service.TokenManager
	Codes          service.CodeStore
	Notifier       service.Notifier
	FileStore      service.FileStore
	AllowedOrigins []string
}

// Setup wires repositories, services and handlers onto a gin engine
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "workplace-api"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if cfg.DB == nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "workplace-api"})
			return
		}
		sqlDB, err := cfg.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(503, gin.H{"status": "not ready", "service": "workplace-api"})
			return
		}
		c.JSON(200, gin.H{"status": "ready", "service": "workplace-api"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	workplaceRepo := repository.NewWorkplaceRepository(cfg.DB)
	membershipRepo := repository.NewMembershipRepository(cfg.DB)
	sprintRepo := repository.NewSprintRepository(cfg.DB)
	issueRepo := repository.NewIssueRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)

	// Services
	authService := service.NewAuthService(userRepo, cfg.Codes, cfg.Notifier, cfg.Tokens, cfg.Logger)
	workplaceService := service.NewWorkplaceService(
		workplaceRepo, membershipRepo, sprintRepo, issueRepo, commentRepo, cfg.Metrics, cfg.Logger)
	sprintService := service.NewSprintService(
		sprintRepo, workplaceRepo, issueRepo, commentRepo, cfg.Metrics, cfg.Logger)
	issueService := service.NewIssueService(
		issueRepo, workplaceRepo, sprintRepo, membershipRepo, commentRepo, cfg.Metrics, cfg.Logger)
	commentService := service.NewCommentService(commentRepo, issueRepo, cfg.Metrics, cfg.Logger)
	invitationService := service.NewInvitationService(
		workplaceRepo, membershipRepo, userRepo, cfg.Codes, cfg.Notifier, cfg.Logger)
	fileService := service.NewFileService(cfg.FileStore, workplaceRepo, cfg.Logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	workplaceHandler := handler.NewWorkplaceHandler(workplaceService, invitationService)
	sprintHandler := handler.NewSprintHandler(sprintService, issueService)
	issueHandler := handler.NewIssueHandler(issueService)
	commentHandler := handler.NewCommentHandler(commentService)
	fileHandler := handler.NewFileHandler(fileService)

	authMiddleware := middleware.Auth(cfg.Tokens)
	asGuest := middleware.RequireRole(membershipRepo, domain.RoleGuest)
	asMember := middleware.RequireRole(membershipRepo, domain.RoleMember)
	asAdmin := middleware.RequireRole(membershipRepo, domain.RoleAdmin)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify", authHandler.VerifyEmail)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	api.POST("/invitations/accept", authMiddleware, workplaceHandler.AcceptInvitation)

	workplaces := api.Group("/workplaces")
	workplaces.Use(authMiddleware)
	{
		workplaces.POST("", workplaceHandler.CreateWorkplace)
		workplaces.GET("", workplaceHandler.ListWorkplaces)

		scoped := workplaces.Group("/:workplaceId")
		{
			scoped.GET("", asGuest, workplaceHandler.GetWorkplace)
			scoped.PUT("", asAdmin, workplaceHandler.UpdateWorkplace)
			scoped.DELETE("", asAdmin, workplaceHandler.DeleteWorkplace)

			scoped.GET("/members", asGuest, workplaceHandler.ListMembers)
			scoped.DELETE("/members/:membershipId", asAdmin, workplaceHandler.RemoveMember)
			scoped.POST("/invitations", asAdmin, workplaceHandler.InviteMember)

			scoped.POST("/sprints", asAdmin, sprintHandler.CreateSprint)
			scoped.GET("/sprints", asGuest, sprintHandler.ListSprints)
			scoped.GET("/sprints/:sprintId", asGuest, sprintHandler.GetSprint)
			scoped.GET("/sprints/:sprintId/issues", asGuest, sprintHandler.ListSprintIssues)
			scoped.PUT("/sprints/:sprintId", asAdmin, sprintHandler.UpdateSprint)
			scoped.DELETE("/sprints/:sprintId", asAdmin, sprintHandler.DeleteSprint)

			scoped.POST("/issues", asMember, issueHandler.CreateIssue)
			scoped.GET("/issues", asGuest, issueHandler.ListIssues)
			scoped.GET("/issues/:issueId", asGuest, issueHandler.GetIssue)
			scoped.PUT("/issues/:issueId", asMember, issueHandler.UpdateIssue)
			scoped.DELETE("/issues/:issueId", asMember, issueHandler.DeleteIssue)
			scoped.POST("/issues/:issueId/assignees", asMember, issueHandler.AssignUsers)
			scoped.DELETE("/issues/:issueId/assignees", asMember, issueHandler.UnassignUsers)

			scoped.POST("/issues/:issueId/comments", asMember, commentHandler.CreateComment)
			scoped.GET("/issues/:issueId/comments", asGuest, commentHandler.ListComments)
			scoped.GET("/issues/:issueId/comments/:commentId", asGuest, commentHandler.GetComment)
			scoped.PUT("/issues/:issueId/comments/:commentId", asMember, commentHandler.UpdateComment)
			scoped.DELETE("/issues/:issueId/comments/:commentId", asMember, commentHandler.DeleteComment)

			scoped.POST("/files", asMember, fileHandler.UploadFile)
			scoped.GET("/files/:filename", asGuest, fileHandler.DownloadFile)
			scoped.DELETE("/files/:filename", asMember, fileHandler.DeleteFile)
		}
	}

	return r
}
