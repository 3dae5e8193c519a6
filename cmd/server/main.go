package main // Entry point package

import (
    "context" // Context for the audit notifier closure
    "log"     // Logging library
    "time"    // Durations for the default hold TTL

    "github.com/joho/godotenv"    // Loads .env files in development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/event-seat-inventory/internal/config"     // Internal config loader
    "github.com/iliyamo/event-seat-inventory/internal/database"   // MySQL connection helper
    "github.com/iliyamo/event-seat-inventory/internal/handler"    // HTTP handlers
    "github.com/iliyamo/event-seat-inventory/internal/inventory"  // Seat inventory engine
    "github.com/iliyamo/event-seat-inventory/internal/middleware" // Rate limiting and response cache
    "github.com/iliyamo/event-seat-inventory/internal/model"      // Audit log entry type
    "github.com/iliyamo/event-seat-inventory/internal/queue"      // Broker payloads and consumer
    "github.com/iliyamo/event-seat-inventory/internal/repository" // MySQL repositories
    "github.com/iliyamo/event-seat-inventory/internal/router"     // Route registration
    queue_publisher "github.com/iliyamo/event-seat-inventory/internal/service"
)

func main() {
    // Load .env when present; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connect failed: %v", err)
    }
    defer db.Close()

    // Redis backs the rate limiter and the availability response cache.
    // A nil client disables both; seat state itself always lives in MySQL.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; rate limiting and response caching disabled")
    }

    // Repositories over the shared connection pool.
    holdRepo := repository.NewHoldRepo(db)
    blockRepo := repository.NewBlockRepo(db)
    orderRepo := repository.NewOrderRepo(db)
    tierRepo := repository.NewTierRepo(db)
    auditRepo := repository.NewAuditRepo(db)

    // The notifier mirrors every audit entry onto the broker.  Publish
    // failures are logged inside the publisher and otherwise ignored: the
    // database audit trail is the source of truth.
    notify := func(ctx context.Context, entry *model.InventoryLogEntry) {
        _ = queue_publisher.PublishInventoryAudit(ctx, queue.NewAuditEvent(entry))
    }

    snapshots := inventory.NewSnapshotLoader(orderRepo, holdRepo, blockRepo)
    holdMgr := inventory.NewHoldManager(holdRepo, snapshots, auditRepo, notify, time.Duration(cfg.HoldTTLMin)*time.Minute)
    blockMgr := inventory.NewBlockManager(blockRepo, snapshots, auditRepo, notify)
    capAdjuster := inventory.NewCapacityAdjuster(tierRepo, auditRepo, notify)

    holdHandler := handler.NewHoldHandler(holdMgr)
    blockHandler := handler.NewBlockHandler(blockMgr)
    capacityHandler := handler.NewCapacityHandler(capAdjuster)
    inventoryHandler := handler.NewInventoryHandler(snapshots)
    auditHandler := handler.NewAuditHandler(auditRepo)

    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    e := echo.New()
    router.RegisterRoutes(e)
    router.RegisterShopper(e, holdHandler, inventoryHandler, limiter, cache)
    router.RegisterAdmin(e, inventoryHandler, blockHandler, capacityHandler, auditHandler, cfg.JWTSecret)

    // The audit consumer tails the broker queue and appends readable lines
    // to logs/inventory-audit.log.  It runs its own reconnect loop.
    go func() {
        if err := queue.StartAuditConsumer(); err != nil {
            log.Printf("audit consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}
