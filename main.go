package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/notify"
	"backend/internal/store"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureAccountIndexes(db); err != nil {
		log.Printf("⚠️ account index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}
	if err := database.EnsureSlotIndexes(db); err != nil {
		log.Printf("⚠️ slot index warning: %v", err)
	}

	orderStore := store.NewMongoStore(db)
	shopperOrders := store.NewShopperOrders(orderStore)
	delivererQueue := store.NewDelivererQueue(orderStore)
	slotService := store.NewSlotService(orderStore, config.AppEnv.SlotCapacity, config.AppEnv.SlotWindowDays)

	var notifier notify.Sink = notify.LogSink{}
	if len(config.AppEnv.KafkaBrokers) > 0 {
		kafkaSink, err := notify.NewKafkaSink(config.AppEnv.KafkaBrokers, config.AppEnv.KafkaTopic)
		if err != nil {
			log.Printf("⚠️ kafka sink warning, falling back to log sink: %v", err)
		} else {
			notifier = kafkaSink
			defer kafkaSink.Close()
			log.Println("Kafka notifications enabled on topic:", config.AppEnv.KafkaTopic)
		}
	}

	// Live read side: log the work-queue depth whenever the order set
	// changes, so deliverer load is visible without polling.
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go watchQueueDepth(watchCtx, orderStore)

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/refresh", handlers.Refresh(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/auth/logout", handlers.Logout(db))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/auth/me", middleware.RequireAuth(config.AppEnv.JWTSecret), handlers.Me(db))

	shopper := r.Group("/")
	shopper.Use(middleware.RequireRole(config.AppEnv.JWTSecret, models.RoleShopper))
	{
		shopper.GET("/slots", handlers.GetSlots(slotService))
		shopper.POST("/slots/:id/book", handlers.BookSlot(slotService))
		shopper.POST("/orders", handlers.PlaceOrder(db, shopperOrders, slotService, notifier))
		shopper.GET("/orders", handlers.GetMyOrders(shopperOrders))
		shopper.GET("/orders/:id", handlers.GetOrder(shopperOrders))
		shopper.POST("/orders/:id/cancel", handlers.CancelOrder(shopperOrders, notifier))
		shopper.GET("/shopper/addresses", handlers.GetAddresses(db))
		shopper.POST("/shopper/addresses", handlers.CreateAddress(db))
		shopper.DELETE("/shopper/addresses/:id", handlers.DeleteAddress(db))
	}

	deliverer := r.Group("/queue")
	deliverer.Use(middleware.RequireRole(config.AppEnv.JWTSecret, models.RoleDeliverer))
	{
		deliverer.GET("/active", handlers.ActiveQueue(delivererQueue))
		deliverer.GET("/completed", handlers.CompletedQueue(delivererQueue))
		deliverer.POST("/:id/claim", handlers.ClaimOrder(delivererQueue))
		deliverer.POST("/:id/advance", handlers.AdvanceOrder(delivererQueue, notifier))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func watchQueueDepth(ctx context.Context, watcher store.OrderWatcher) {
	updates, err := watcher.WatchOrders(ctx)
	if err != nil {
		log.Println("[QUEUE] [WARN] order watch unavailable:", err)
		return
	}
	for orders := range updates {
		active := 0
		for _, order := range orders {
			if !order.Status.IsTerminal() {
				active++
			}
		}
		log.Printf("[QUEUE] [INFO] %d active orders in the work queue", active)
	}
}
