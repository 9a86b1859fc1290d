// Package app wires config, logger, database, cache and services for the
// binaries under cmd/.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-user-admin/internal/core/auth"
	"go-gin-user-admin/internal/core/cache"
	"go-gin-user-admin/internal/core/config"
	"go-gin-user-admin/internal/core/database"
	"go-gin-user-admin/internal/core/logger"
	"go-gin-user-admin/internal/domain"
	"go-gin-user-admin/internal/repo"
	"go-gin-user-admin/internal/service"
	"go-gin-user-admin/internal/transport/http/router"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Cache *cache.Cache // 未配置 redis 时为 nil
	Users *service.UserService
	Deps  router.Deps

	closers []func()
}

// New 按配置组装依赖；返回错误时已打开的资源都已关闭
func New(ctx context.Context, cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	log, syncLog := logger.New(cfg.Log)
	a := &App{Cfg: cfg, Log: log, closers: []func(){syncLog}}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() { _ = database.Close(db) })
	log.Info("database connected",
		zap.String("driver", cfg.DB.Driver),
		zap.String("dsn", database.MaskDSN(cfg.DB.DSN)),
	)

	if cfg.DB.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(&domain.User{}); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	// redis 可选：连不上只告警，退回直接查库
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			log.Warn("redis unavailable, actor cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache = c
			a.closers = append(a.closers, func() { _ = c.Close() })
		}
	}

	userRepo := repo.NewUserRepo(db)
	actors := service.NewActorSource(userRepo, a.Cache, time.Duration(cfg.Redis.TTLSec)*time.Second)
	a.Users = service.NewUserService(userRepo, actors, log.Named("users"))
	a.Deps = router.Deps{
		Log: log,
		JWT: &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		},
		Users:   a.Users,
		Actors:  actors,
		Session: cfg.Session,
		Limits:  cfg.Limits,
	}
	return a, nil
}

// Close 逆序释放
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
