package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zhwaweb/zhwaweb-admin/config"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/controller"
	"github.com/zhwaweb/zhwaweb-admin/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	storeController        *controller.StoreController
	offerController        *controller.OfferController
	subscriptionController *controller.SubscriptionController
	dashboardController    *controller.DashboardController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	loginLimiter           *middleware.RateLimiter
	metrics                *middleware.Metrics
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	storeController *controller.StoreController,
	offerController *controller.OfferController,
	subscriptionController *controller.SubscriptionController,
	dashboardController *controller.DashboardController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	loginLimiter *middleware.RateLimiter,
	metrics *middleware.Metrics,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		storeController:        storeController,
		offerController:        offerController,
		subscriptionController: subscriptionController,
		dashboardController:    dashboardController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		loginLimiter:           loginLimiter,
		metrics:                metrics,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	if r.metrics != nil {
		router.Use(r.metrics.Middleware())
	}
	router.Use(middleware.CORSMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.CredentialRewriteMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Zhwaweb Admin API",
			"version": "1.0.0",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	})
	if r.metrics != nil {
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	if r.config.Upload.Backend == "local" {
		router.Static("/static", r.config.Upload.Dir)
	}

	authenticated := r.authMiddleware.Authenticate()

	auth := router.Group("/auth")
	{
		auth.POST("/register", r.authController.Register)
		if r.loginLimiter != nil {
			auth.POST("/login", r.loginLimiter.Middleware(), r.authController.Login)
			auth.POST("/login-phone", r.loginLimiter.Middleware(), r.authController.LoginPhone)
		} else {
			auth.POST("/login", r.authController.Login)
			auth.POST("/login-phone", r.authController.LoginPhone)
		}
		auth.POST("/logout", authenticated, r.authController.Logout)
		auth.GET("/me", authenticated, r.authController.GetMe)
	}

	stores := router.Group("/stores")
	stores.Use(authenticated)
	{
		stores.GET("", r.storeController.ListStores)
		stores.POST("", r.storeController.CreateStore)
		stores.GET("/:id", r.storeController.GetStore)
		stores.PUT("/:id", r.storeController.UpdateStore)
		stores.DELETE("/:id", r.storeController.DeleteStore)
	}

	offers := router.Group("/offers")
	offers.Use(authenticated)
	{
		offers.GET("", r.offerController.ListOffers)
		offers.POST("", r.offerController.CreateOffer)
		offers.GET("/:id", r.offerController.GetOffer)
		offers.PUT("/:id", r.offerController.UpdateOffer)
		offers.DELETE("/:id", r.offerController.DeleteOffer)
	}

	subscriptions := router.Group("/subscriptions")
	{
		// public
		subscriptions.POST("", r.subscriptionController.CreateSubscription)
		subscriptions.GET("/check/:email", r.subscriptionController.CheckByEmail)
		subscriptions.PUT("/update-by-email/:email", r.subscriptionController.UpdateByEmail)

		subscriptions.GET("", authenticated, r.subscriptionController.ListSubscriptions)
		subscriptions.GET("/:id", authenticated, r.subscriptionController.GetSubscription)
		subscriptions.PUT("/:id", authenticated, r.subscriptionController.UpdateSubscription)
		subscriptions.DELETE("/:id", authenticated, r.subscriptionController.DeleteSubscription)
		subscriptions.PUT("/:id/approve", authenticated, r.subscriptionController.ApproveSubscription)
		subscriptions.PUT("/:id/reject", authenticated, r.subscriptionController.RejectSubscription)
	}

	dashboard := router.Group("/dashboard")
	dashboard.Use(authenticated)
	{
		dashboard.GET("/stats", r.dashboardController.GetStats)
		dashboard.GET("/export", r.dashboardController.ExportStores)
	}

	upload := router.Group("/upload")
	upload.Use(authenticated)
	{
		upload.POST("/image", r.uploadController.UploadImage)
	}

	return router
}
