package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	appcache "approval-backend/internal/adapter/cache"
	httpadp "approval-backend/internal/adapter/http"
	"approval-backend/internal/adapter/middleware"
	"approval-backend/internal/adapter/notify"
	"approval-backend/internal/adapter/repository/mysql"
	"approval-backend/internal/config"
	"approval-backend/internal/domain/registry"
	"approval-backend/internal/infrastructure/cache"
	"approval-backend/internal/infrastructure/db"
	"approval-backend/internal/usecase/queueview"
	"approval-backend/internal/usecase/workflow"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := db.MigrateApprovalTables(gdb); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	// Attached entity kinds come from config; each table must carry the
	// shared approval columns.
	reg := registry.New()
	for _, et := range cfg.EntityTables {
		reg.Register(et.Kind, mysql.NewEntityStore(gdb, et.Kind, et.Table))
		log.Printf("registered entity kind %q (table %s)", et.Kind, et.Table)
	}

	tx := mysql.NewGormUoW(gdb, reg)
	audit := mysql.NewAuditRepository(gdb)
	rules := mysql.NewRuleRepository(gdb)
	queues := mysql.NewQueueRepository(gdb)

	wf := workflow.NewUsecase(tx, reg, rules, audit, notify.NewRedisPublisher(rdb), cfg.Approval)
	counts := appcache.NewPendingCounts(rdb, time.Duration(cfg.CountCacheTTLSecs)*time.Second)
	views := queueview.NewUsecase(queues, audit, reg, counts, cfg.Approval)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	e.Validator = httpadp.NewValidator()

	h := httpadp.NewHandler(wf, views)
	idem := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	h.Register(e, idem)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
