package main

import (
	"time"

	"edustream-app/config"
	"edustream-app/database"
	routes "edustream-app/internal/app/http"
	"edustream-app/internal/identity"
	"edustream-app/internal/projection"
	"edustream-app/internal/session"
	"edustream-app/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	store.InitGorm(database.DB)
	identity.Svc = identity.NewGormService(database.DB)
	session.Init(store.Accounts)

	stop := projection.Init(store.Videos, store.Accounts)
	defer stop()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r)

	r.Run(":" + config.PORT)
}
