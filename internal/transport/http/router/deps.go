package router

import (
	"time"

	"go.uber.org/zap"

	"go-gin-user-admin/internal/core/auth"
	"go-gin-user-admin/internal/core/config"
	"go-gin-user-admin/internal/service"
)

// Deps 两个引擎共用的依赖
type Deps struct {
	Log     *zap.Logger
	JWT     *auth.JWTer
	Users   *service.UserService
	Actors  *service.ActorSource
	Session config.Session
	Limits  config.Limits
}

func (d Deps) timeout() time.Duration {
	if d.Limits.TimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.Limits.TimeoutSec) * time.Second
}
