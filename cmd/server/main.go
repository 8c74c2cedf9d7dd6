package main

import (
	"context"
	"log"

	handlers "prepared/internal/handler"
	"prepared/internal/listeners"
	"prepared/internal/models"
	"prepared/internal/query"
	"prepared/internal/reconcile"
	"prepared/pkg/cache"
	"prepared/pkg/config"
	"prepared/pkg/logger"
	"prepared/pkg/scheduler"
	"prepared/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GlobalConfig

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := util.InitDatabase(cfg.DBDriver, cfg.DSN, cfg.Mode == "debug")
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	c, err := cache.NewCache(cfg.Cache)
	if err != nil {
		log.Fatalf("init cache: %v", err)
	}
	defer c.Close()

	stores := models.NewStores(db)
	affected := query.New(stores.Emergencies, stores.Locations, c, cast.ToDuration(cfg.AffectedCacheTTL))
	reconciler := reconcile.New(stores.Emergencies, stores.Locations, stores.Statuses, cfg.ReconcileWorkers)
	reconciler.SetInvalidator(affected.Invalidate)

	listeners.InitEmergencyListeners(reconciler)

	if cfg.SweepSchedule != "" {
		cr := scheduler.NewCron(nil)
		if _, err := cr.AddWithCtx(cfg.SweepSchedule, func(ctx context.Context) {
			if err := reconciler.ReconcileAll(ctx); err != nil {
				logger.Warn("periodic sweep finished with failures", zap.Error(err))
			}
		}); err != nil {
			log.Fatalf("schedule sweep: %v", err)
		}
		cr.Start()
		defer cr.Stop()
	}

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	handlers.NewHandlers(db, reconciler, affected).Register(engine)

	logger.Info("server starting", zap.String("addr", cfg.Addr))
	if err := engine.Run(cfg.Addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
