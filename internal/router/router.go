package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tarmuz-dev/tarmuz/internal/handlers"
	"github.com/tarmuz-dev/tarmuz/internal/types"
)

type Options struct {
	Handler *handlers.Handler

	// Auth guards the admin routes.
	Auth gin.HandlerFunc

	// Origins defaults to the development origins when empty.
	Origins  []string
	Gatherer prometheus.Gatherer

	// RequestLogger is added first when set.
	RequestLogger gin.HandlerFunc
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()

	if opts.RequestLogger != nil {
		r.Use(opts.RequestLogger)
	}
	r.Use(gin.Recovery())

	origins := opts.Origins
	if len(origins) == 0 {
		origins = types.AllowedOrigins("", nil)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := opts.Handler
	admin := opts.Auth
	if admin == nil {
		admin = func(ctx *gin.Context) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Authorization token is required"})
		}
	}

	r.GET("/healthz", h.HealthCheck)
	r.GET("/readyz", h.Ready)

	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/ws", h.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/login", h.LoginUser)
			auth.GET("/me", admin, h.Me)
		}

		content := api.Group("/content")
		{
			content.GET("", h.ListContent)
			content.GET("/:type", h.GetContent)
			content.POST("", admin, h.CreateContent)
			content.PUT("/:type", admin, h.UpdateContent)
			content.DELETE("/:type", admin, h.DeleteContent)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", h.ListProjects)
			projects.GET("/:id", h.GetProject)
			projects.POST("", admin, h.CreateProject)
			projects.PUT("/:id", admin, h.UpdateProject)
			projects.DELETE("/:id", admin, h.DeleteProject)
		}

		api.GET("/categories", h.ListCategories)

		team := api.Group("/team")
		{
			team.GET("", h.ListTeam)
			team.GET("/admin", admin, h.ListTeamAdmin)
			team.GET("/:id", h.GetTeamMember)
			team.POST("", admin, h.CreateTeamMember)
			team.PUT("/:id", admin, h.UpdateTeamMember)
			team.PUT("/:id/toggle", admin, h.ToggleTeamMember)
			team.DELETE("/:id", admin, h.DeleteTeamMember)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/public", h.GetPublicSettings)
			settings.GET("/branding/public", h.GetBranding)
			settings.GET("/login-options/public", h.GetLoginOptions)

			settings.GET("", admin, h.GetSettings)
			settings.PUT("", admin, h.UpdateSettings)
			settings.GET("/branding", admin, h.GetBranding)
			settings.PUT("/branding", admin, h.UpdateBranding)
			settings.GET("/login-options", admin, h.GetLoginOptions)
			settings.PUT("/login-options", admin, h.UpdateLoginOptions)
			settings.GET("/contact-recipient", admin, h.GetContactRecipient)
			settings.PUT("/contact-recipient", admin, h.UpdateContactRecipient)
			settings.POST("/test-email", admin, h.TestEmail)
		}

		uploads := api.Group("/upload", admin)
		{
			uploads.POST("", h.UploadImage)
			uploads.POST("/multiple", h.UploadImages)
		}
	}

	return r
}
