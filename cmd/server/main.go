package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"pos-service/internal/controllers/http"
	"pos-service/internal/infra"
	mmysql "pos-service/internal/infra/mysql"
	"pos-service/internal/infra/rabbitmq"
	"pos-service/internal/metrics"
	mysqlrepo "pos-service/internal/repository/mysql"
	"pos-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const defaultMaxDiscount = 1_000_000

func main() {
	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	store := mysqlrepo.NewStore(db)

	catalogClient := infra.NewCatalogClient(os.Getenv("CATALOG_SERVICE_URL"), 2*time.Second)

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "pos.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	maxDiscount := float64(defaultMaxDiscount)
	if v := os.Getenv("MAX_DISCOUNT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			maxDiscount = parsed
		}
	}
	pricer := services.NewPricer(maxDiscount)

	orderService := services.NewOrderService(store, pricer, publisher)
	inventoryService := services.NewInventoryService(store, publisher, catalogClient)

	svcMetrics := metrics.NewServiceMetrics()
	orderService.SetMetrics(svcMetrics)
	inventoryService.SetMetrics(svcMetrics)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST") + ":6379",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	inventoryService.SetRedisClient(redisClient)

	go func() {
		time.Sleep(5 * time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := inventoryService.WarmupCategoryCache(ctx, []uint64{1, 2, 3}); err != nil {
			log.Printf("Failed to warm up category cache: %v", err)
		}
	}()

	handler := http.NewHandler(orderService, inventoryService, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting pos service on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
