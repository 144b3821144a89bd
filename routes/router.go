package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avezhov/pulse/cache"
	"github.com/avezhov/pulse/config"
	"github.com/avezhov/pulse/controllers"
	"github.com/avezhov/pulse/middleware"
	"github.com/avezhov/pulse/services"
	"github.com/avezhov/pulse/utils"
)

// SetupRouter wires routes, middlewares, services, and controllers. The
// page cache store is injected so deployments and tests choose the backend.
func SetupRouter(db *gorm.DB, store cache.Store) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postService := services.NewPostService(db)
	feedService := services.NewFeedService(db, cfg.PageSize)
	userService := services.NewUserService(db)
	groupService := services.NewGroupService(db)
	followService := services.NewFollowService(db)

	feedTTL := time.Duration(cfg.FeedCacheTTLSeconds) * time.Second
	postController := controllers.NewPostController(postService, feedService, userService, store, feedTTL)
	groupController := controllers.NewGroupController(groupService)
	followController := controllers.NewFollowController(followService, userService)
	userController := controllers.NewUserController(userService)
	uploadController := controllers.NewUploadController(db)

	api := r.Group("/api/v1")

	// Public read path
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/groups", groupController.ListGroups)
	api.GET("/groups/:slug", groupController.GetGroup)
	api.GET("/groups/:slug/posts", postController.ListGroupPosts)
	api.GET("/users/:username/posts", postController.ListAuthorPosts)

	// Identity-bound routes
	protected := api.Group("")
	protected.Use(middleware.IdentityRequired(), middleware.RateLimitMiddleware())
	protected.GET("/feed", postController.Following)
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/comments", postController.CreateComment)
	protected.POST("/follows/:username", followController.Follow)
	protected.DELETE("/follows/:username", followController.Unfollow)
	protected.GET("/follows/:username", followController.Status)
	protected.POST("/upload", uploadController.UploadImage)
	protected.DELETE("/users/me", userController.DeleteMe)

	// Administrative surface
	admin := api.Group("/admin")
	admin.Use(middleware.IdentityRequired())
	admin.POST("/groups", groupController.CreateGroup)
	admin.PUT("/groups/:id", groupController.UpdateGroup)
	admin.DELETE("/groups/:id", groupController.DeleteGroup)
	admin.POST("/cache/clear", postController.ClearFeedCache)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40404, "route not found")
	})

	return r
}
