package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/oleal/shopbook/internal/adapter/handler"
	"github.com/oleal/shopbook/internal/adapter/storage"
	"github.com/oleal/shopbook/internal/config"
	"github.com/oleal/shopbook/internal/core/service"
	"github.com/oleal/shopbook/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize the record store
	var (
		inventoryRepo port.InventoryRepository
		clientRepo    port.ClientRepository
	)
	switch cfg.StoreDriver {
	case "memory":
		mem := storage.NewMemoryAdapter()
		inventoryRepo, clientRepo = mem, mem
		log.Println("using in-memory store")

	case "sqlite":
		lite, err := storage.NewSQLiteAdapter(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
		defer lite.Close()
		inventoryRepo, clientRepo = lite, lite
		log.Printf("using sqlite store at %s", cfg.SQLitePath)

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("failed to ping mysql: %v", err)
		}
		my := storage.NewMySQLAdapter(db)
		inventoryRepo, clientRepo = my, my
		log.Println("connected to mysql")
	}

	// Initialize the optional Redis cache
	var (
		stockCache    port.StockCache
		snapshotCache port.SnapshotCache
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()

		redisAdapter := storage.NewRedisAdapter(rdb, cfg.SnapshotTTL)
		stockCache, snapshotCache = redisAdapter, redisAdapter
		log.Println("connected to redis")

		// Sync current stock levels into the cache
		items, err := inventoryRepo.ListItems(ctx)
		if err != nil {
			log.Fatalf("failed to list items for stock sync: %v", err)
		}
		for _, item := range items {
			if err := redisAdapter.SetStock(ctx, item.ID, item.Stock); err != nil {
				log.Fatalf("failed to sync stock for %s: %v", item.ID, err)
			}
		}
		log.Printf("synced stock for %d items", len(items))
	}

	// Initialize services and HTTP handler
	inventoryService := service.NewInventoryService(inventoryRepo, stockCache, snapshotCache)
	tabService := service.NewTabService(clientRepo)

	httpHandler := handler.NewHTTPHandler(inventoryService, tabService)
	mux := http.NewServeMux()
	httpHandler.Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")
}
