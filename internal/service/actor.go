package service

import (
	"context"
	"time"

	"go-gin-user-admin/internal/core/cache"
	"go-gin-user-admin/internal/domain"
)

// ActorSource 按 token 里的 uid 取当前操作者；配置了 redis 时走缓存，
// 用户被修改或软删时由 UserService 清掉对应 key。
type ActorSource struct {
	repo  domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
}

func NewActorSource(repo domain.UserRepository, c *cache.Cache, ttl time.Duration) *ActorSource {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ActorSource{repo: repo, cache: c, ttl: ttl}
}

func actorKey(id string) string { return "actor:" + id }

// Actor 软删用户拿到的是 domain.ErrNotFound
func (a *ActorSource) Actor(ctx context.Context, id string) (*domain.User, error) {
	if a.cache == nil {
		return a.repo.FindByID(ctx, id)
	}
	return cache.GetOrLoadJSON(a.cache, ctx, actorKey(id), a.ttl, func(ctx context.Context) (*domain.User, error) {
		return a.repo.FindByID(ctx, id)
	})
}

func (a *ActorSource) Forget(ctx context.Context, id string) {
	if a == nil || a.cache == nil {
		return
	}
	_ = a.cache.Del(ctx, actorKey(id))
}
