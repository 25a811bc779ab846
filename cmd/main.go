package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/terrence3333/Mindconnect-Demo/internal/api/handler"
	"github.com/terrence3333/Mindconnect-Demo/internal/config"
	"github.com/terrence3333/Mindconnect-Demo/internal/gateway"
	"github.com/terrence3333/Mindconnect-Demo/internal/identity"
	"github.com/terrence3333/Mindconnect-Demo/internal/models"
	"github.com/terrence3333/Mindconnect-Demo/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Mindconnect realtime gateway...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewService(db, rdb)

	hub := gateway.NewHub()
	go hub.Run()
	hub.StartRelay(s)

	provider := identity.NewJWTProvider([]byte(cfg.JWTSecret), cfg.JWTIssuer, s)

	r := gin.Default()
	h := handler.NewHandler(hub, provider, s)

	r.GET("/ws", h.ServeWebSocket)
	r.GET("/healthz", h.Health)

	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
