package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/foliosite/folio/internal/auth"
	"github.com/foliosite/folio/internal/ws"
)

// SetupRoutes configures all application routes and middleware.
func SetupRoutes(router *gin.Engine, env *Env, corsOrigin string) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	if corsOrigin == "" {
		corsOrigin = "*" // Default to allow all for local dev
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Session identity is resolved once here and carried explicitly; nothing
	// downstream reads the token again.
	router.Use(auth.Middleware(env.DB))

	limiter := NewIPRateLimiter(rate.Limit(rateLimitRPS), rateLimitBurst)
	go limiter.CleanupLoop(10 * time.Minute)

	api := router.Group("/api")
	{
		posts := api.Group("/posts")
		{
			posts.GET("", env.ListPosts)
			posts.GET("/:id", env.GetPost)
			posts.POST("", auth.RequireAdmin(), env.CreatePost)
			posts.PUT("/:id", auth.RequireAdmin(), env.UpdatePost)
			posts.DELETE("/:id", auth.RequireAdmin(), env.DeletePost)
			posts.POST("/:id/pin", auth.RequireAdmin(), env.TogglePinPost)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", env.ListProjects)
			projects.POST("", auth.RequireAdmin(), env.CreateProject)
			projects.PUT("/:id", auth.RequireAdmin(), env.UpdateProject)
			projects.DELETE("/:id", auth.RequireAdmin(), env.DeleteProject)
			projects.POST("/:id/pin", auth.RequireAdmin(), env.TogglePinProject)
		}

		logs := api.Group("/logs")
		{
			logs.GET("", env.ListLogs)
			logs.POST("", auth.RequireAdmin(), env.CreateLog)
			logs.PUT("/:id", auth.RequireAdmin(), env.UpdateLog)
			logs.DELETE("/:id", auth.RequireAdmin(), env.DeleteLog)
		}

		guestbook := api.Group("/guestbook")
		{
			guestbook.GET("", env.ListComments)
			guestbook.POST("", auth.RequireUser(), RateLimitMiddleware(limiter), env.CreateComment)
			guestbook.PUT("/:id", auth.RequireUser(), RateLimitMiddleware(limiter), env.UpdateComment)
			guestbook.DELETE("/:id", auth.RequireUser(), RateLimitMiddleware(limiter), env.DeleteComment)
		}

		images := api.Group("/images")
		{
			images.POST("", auth.RequireAdmin(), env.UploadImage)
			images.DELETE("", auth.RequireAdmin(), env.DeleteImage)
		}

		api.GET("/music/now-playing", env.NowPlaying)
	}

	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(env.Hub, c.Writer, c.Request)
	})
}
