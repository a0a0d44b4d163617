package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-reservation/internal/api"
	"github.com/sanosuguru/go-restaurant-reservation/internal/api/handler"
	custommiddleware "github.com/sanosuguru/go-restaurant-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-restaurant-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-reservation/internal/config"
	"github.com/sanosuguru/go-restaurant-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-restaurant-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-restaurant-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-restaurant-reservation/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.Get()
	defer logger.Sync()

	schedule, err := reservation.NewSchedule(
		cfg.Restaurant.Timezone,
		cfg.Restaurant.OpenTime,
		cfg.Restaurant.LastSeating,
		cfg.Restaurant.ClosedWeekday,
	)
	if err != nil {
		log.Fatal("営業スケジュール設定が不正です", zap.Error(err))
	}

	// PostgreSQL接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		if err := postgres.RunMigrations(db.DB, path); err != nil {
			log.Fatal("マイグレーションエラー", zap.Error(err))
		}
		log.Info("マイグレーション適用完了", zap.String("path", path))
	}

	// Redis接続（任意: 失敗してもキャッシュ・分散ロックなしで起動する）
	var (
		lockManager redisinfra.LockManagerInterface
		cache       redisinfra.ReservationCacheInterface
	)
	redisClient, err := redisinfra.NewClient(&redisinfra.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis接続エラー: キャッシュと分散ロックを無効化します", zap.Error(err))
	} else {
		defer redisClient.Close()
		lockManager = redisinfra.NewLockManager(redisClient)
		cache = redisinfra.NewReservationCache(redisClient)
	}

	// メトリクス初期化
	m := metrics.Init()

	// リポジトリとサービス
	reservationRepo := postgres.NewReservationRepository(db)
	tableRepo := postgres.NewTableRepository(db)
	txManager := postgres.NewTxManager(db)

	reservationService := application.NewReservationService(
		reservationRepo, txManager, cache, m, schedule, cfg.Restaurant.CacheTTL,
	)
	tableService := application.NewTableService(
		tableRepo, reservationRepo, txManager, lockManager, cache, m, schedule.Location,
	)

	// Echoセットアップ
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Validator = api.NewValidator()
	custommiddleware.SetupMiddleware(e)
	e.Use(custommiddleware.PrometheusMiddleware(m))

	// ルーティング
	reservationHandler := handler.NewReservationHandler(reservationService)
	tableHandler := handler.NewTableHandler(tableService)
	healthHandler := handler.NewHealthHandler()

	v1 := e.Group("/api/v1")
	v1.GET("/reservations", reservationHandler.List)
	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations/:reservation_id", reservationHandler.GetByID)
	v1.PUT("/reservations/:reservation_id", reservationHandler.Update)
	v1.PUT("/reservations/:reservation_id/status", reservationHandler.UpdateStatus)
	v1.GET("/tables", tableHandler.List)
	v1.POST("/tables", tableHandler.Create)
	v1.PUT("/tables/:table_id/seat", tableHandler.Seat)
	v1.DELETE("/tables/:table_id/seat", tableHandler.Finish)

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommiddleware.MetricsBasicAuth())

	// 残留着席予約クローザー
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var closer *worker.StaleSeatedCloser
	if cfg.Worker.Enabled {
		closer = worker.NewStaleSeatedCloser(tableService, cfg.Worker.Interval)
		go closer.Start(workerCtx)
	}

	// サーバー起動
	go func() {
		addr := ":" + cfg.Server.Port
		log.Info("サーバー起動", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("サーバーをシャットダウンしています...")

	if closer != nil {
		closer.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
