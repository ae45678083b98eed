package main

import (
	"api"
	"api/internal/api/handler/endpoints"
	"api/internal/api/models"
	"api/internal/realtime"
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
)

func main() {
	api.InitConfig(".env")
	gin.SetMode(gin.ReleaseMode)

	if api.GetConfig().Mode == "dev" {
		if err := api.DB.AutoMigrate(
			&models.User{},
			&models.Content{},
			&models.Image{},
			&models.Appointment{},
		); err != nil {
			api.Logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		api.Logger.Info().Msg("Database migrated successfully")
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	router, err := graceful.Default(graceful.WithAddr(api.GetConfig().ApiPort))
	if err != nil {
		panic(err)
	}
	defer stop()
	defer router.Close()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	hub := realtime.NewHub(api.Logger)
	go hub.Run()
	defer hub.DisconnectAll()
	api.Logger.Info().Msg("Realtime hub started")

	router.Static("/uploads", api.GetConfig().UploadConfig.Dir)
	initAPI(router, hub)

	api.Logger.Debug().Msgf("Starting salon API on port %s", api.GetConfig().ApiPort)
	if err = router.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		api.Logger.Fatal().Msg(err.Error())
		panic(err)
	}
}

func initAPI(router *graceful.Graceful, hub *realtime.Hub) {
	endpoints.AuthHandler(router)
	endpoints.ContentHandler(router, hub)
	endpoints.ImageHandler(router, hub)
	endpoints.AppointmentHandler(router, hub)
	endpoints.StatusHandler(router, hub)
	endpoints.WebSocketHandler(router, hub)
}
