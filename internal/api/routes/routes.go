package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reviewrise/reviewrise-backend/internal/api/handlers"
	"github.com/reviewrise/reviewrise-backend/internal/api/middleware"
	"github.com/reviewrise/reviewrise-backend/internal/config"
	"github.com/reviewrise/reviewrise-backend/internal/services"
	"github.com/reviewrise/reviewrise-backend/pkg/logger"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Initialize services
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(db, cfg.JWTSecret)
	couponService := services.NewCouponService(db, emailService, cfg.CouponCooldownDays)
	reviewSource := services.NewPlacesService(cfg.PlacesAPIBase, cfg.GooglePlacesAPIKey)
	verificationService := services.NewVerificationService(db, reviewSource, couponService,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	brandService := services.NewBrandService(db, emailService, cfg.BaseURL)
	statsService := services.NewStatsService(db)

	var mediaService *services.MediaService
	if cfg.S3BucketName != "" {
		mediaService = services.NewMediaService(cfg.S3Region, cfg.S3BucketName, cfg.S3AccessKey, cfg.S3SecretKey)
	}
	engagementService := services.NewEngagementService(db, couponService, mediaService, cfg.BaseURL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	verifyHandler := handlers.NewVerifyHandler(verificationService)
	brandHandler := handlers.NewBrandHandler(brandService, statsService)
	couponHandler := handlers.NewCouponHandler(couponService)
	engagementHandler := handlers.NewEngagementHandler(engagementService)
	adminHandler := handlers.NewAdminHandler(statsService)

	authRequired := middleware.AuthMiddleware(cfg)
	superAdmin := middleware.SuperAdminOnly()
	brandOwner := middleware.BrandOwnerOrAdmin()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	api := router.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleLogin)
		auth.POST("/google-id-token", authHandler.GoogleIDTokenLogin)
		auth.GET("/me", authRequired, authHandler.Me)
		auth.POST("/register-brand", authRequired, superAdmin, authHandler.RegisterBrandOwner)
	}

	// Verification pipeline
	verify := api.Group("/verify", authRequired)
	{
		verify.POST("/session", verifyHandler.CreateSession)
		verify.GET("/poll/:session_id", verifyHandler.PollSession)
		verify.POST("/feedback", verifyHandler.SubmitFeedback)
	}

	// Brands
	brands := api.Group("/brands")
	{
		brands.GET("/", brandHandler.ListPublic)
		brands.GET("/all", authRequired, superAdmin, brandHandler.ListAll)
		brands.GET("/:brand_id", brandHandler.Get)
		brands.POST("/", authRequired, superAdmin, brandHandler.Create)
		brands.PUT("/:brand_id", authRequired, brandOwner, brandHandler.Update)
		brands.DELETE("/:brand_id", authRequired, superAdmin, brandHandler.Delete)
		brands.GET("/:brand_id/stats", authRequired, brandHandler.Stats)
	}

	// Coupons
	coupons := api.Group("/coupons", authRequired)
	{
		coupons.GET("/", superAdmin, couponHandler.ListAll)
		coupons.GET("/my", couponHandler.ListMine)
		coupons.GET("/brand/:brand_id", couponHandler.ListForBrand)
		coupons.POST("/verify", couponHandler.VerifyCode)
		coupons.POST("/redeem", couponHandler.Redeem)
		coupons.POST("/generate", brandOwner, couponHandler.GenerateManual)
	}

	// Reviews and private feedback (brand dashboard)
	api.GET("/reviews/brand/:brand_id", authRequired, verifyHandler.GetBrandReviews)
	api.PATCH("/reviews/:review_id/replied", authRequired, verifyHandler.MarkReviewReplied)
	api.GET("/feedback/brand/:brand_id", authRequired, verifyHandler.GetBrandFeedback)
	api.PATCH("/feedback/:feedback_id/read", authRequired, verifyHandler.MarkFeedbackRead)

	// Ads
	api.GET("/ads", engagementHandler.ListActiveAds)
	api.GET("/ads/all", authRequired, superAdmin, engagementHandler.ListAllAds)
	api.POST("/ads", authRequired, superAdmin, engagementHandler.CreateAd)
	api.PATCH("/ads/:ad_id/toggle", authRequired, superAdmin, engagementHandler.ToggleAd)
	api.POST("/ads/:ad_id/view", authRequired, engagementHandler.RecordAdView)

	// Banners
	api.GET("/banners", engagementHandler.ListActiveBanners)
	api.GET("/banners/all", authRequired, superAdmin, engagementHandler.ListAllBanners)
	api.POST("/banners", authRequired, superAdmin, engagementHandler.CreateBanner)
	api.PATCH("/banners/:banner_id/toggle", authRequired, superAdmin, engagementHandler.ToggleBanner)

	// Media uploads
	api.POST("/media/upload", authRequired, superAdmin, engagementHandler.UploadMedia)

	// QR codes
	api.GET("/qr/brand/:brand_id", authRequired, engagementHandler.ListQRCodes)
	api.POST("/qr", authRequired, superAdmin, engagementHandler.CreateQRCode)

	// Platform admin
	admin := api.Group("", authRequired, superAdmin)
	{
		admin.GET("/stats/platform", adminHandler.PlatformStats)
		admin.GET("/customers", adminHandler.Customers)
		admin.DELETE("/admin/cleanup-duplicates", adminHandler.CleanupDuplicateBrands)
	}
	api.GET("/stats/brand/:brand_id/trend", authRequired, brandHandler.Trend)

	logger.Info("Routes initialized successfully")
}
