package routes

import (
	accountsapi "edustream-app/internal/api/accounts"
	adminapi "edustream-app/internal/api/admin"
	authapi "edustream-app/internal/api/auth"
	"edustream-app/internal/api/billing"
	videosapi "edustream-app/internal/api/videos"
	"edustream-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Catalogue is public; a token personalizes the playback gate.
	r.GET("/videos", middleware.OptionalAuth(), videosapi.ListVideos)
	r.GET("/videos/:id", middleware.OptionalAuth(), videosapi.GetVideo)
	r.GET("/subscription/info", billing.GetSubscriptionInfo)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", accountsapi.GetCurrentUser)
	auth.GET("/session", accountsapi.GetSession)
	auth.POST("/logout", authapi.Logout)

	// Playback, gated on the effective identity's entitlement
	auth.GET("/videos/:id/watch", middleware.RequireEntitlement(), videosapi.WatchVideo)

	// Admin routes, guarded on the real identity so an impersonating admin can
	// always stop the overlay
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"), middleware.SanitizeAndCleanInputMiddleware())
	admin.GET("/accounts", adminapi.ListAccounts)
	admin.POST("/accounts/:id/activate", adminapi.ActivateSubscription)
	admin.POST("/accounts/:id/deactivate", adminapi.DeactivateSubscription)
	admin.POST("/impersonate/:id", adminapi.Impersonate)
	admin.POST("/stop-impersonating", adminapi.StopImpersonating)

	admin.POST("/videos", videosapi.CreateVideo)
	admin.PUT("/videos/:id", videosapi.UpdateVideo)
	admin.DELETE("/videos/:id", videosapi.DeleteVideo)
}
