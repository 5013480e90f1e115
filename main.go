package main

import (
	"fmt"
	"log"
	"os"

	_ "referral_queue/docs"
	"referral_queue/internal/handlers"
	"referral_queue/internal/models"
	"referral_queue/internal/queue"
	"referral_queue/internal/storage"
	"referral_queue/internal/store"
	"referral_queue/internal/tasks"
	"referral_queue/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @Title	Очередь реферальных кодов
func main() {
	key := os.Getenv("ENV_CHEK")
	if key == "" {
		fmt.Println("Подключение к .env")
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Ошибка получения .env")
		}
	}

	storage.ConnectDatabase()

	if err := storage.DB.AutoMigrate(&models.QueueEntry{}); err != nil {
		log.Fatal("Ошибка при миграции... ", err.Error())
	}

	storage.InitRedis()

	entryStore := store.New(storage.DB)
	hub := ws.NewHub()
	go hub.Run()

	engine := queue.NewEngine(entryStore, storage.RedisClient, hub)

	tasks.InitScheduler(engine)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", handlers.HealthHandler)

	h := handlers.NewQueueHandler(engine)
	api := r.Group("/api")
	{
		api.GET("/queue", h.GetQueueHandler)
		api.POST("/queue", h.SubmitHandler)
		api.POST("/queue/:id/complete", h.CompleteHandler)
		api.GET("/my-entry", h.MyEntryHandler)
	}

	r.GET("/ws", ws.ServeWS(hub, engine.UpdatePayload))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Ошибка запуска сервера...", err.Error())
	}
}
