package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"go-gin-user-admin/internal/core/auth"
	"go-gin-user-admin/internal/domain"
	resp "go-gin-user-admin/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyActor  = "actor"
)

// AuthJWT 只做身份认证；角色授权交给 policy
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, string(claims.Role))
		c.Next()
	}
}

type ActorLoader interface {
	Actor(ctx context.Context, id string) (*domain.User, error)
}

// LoadActor 按 token 里的 uid 取当前用户；用户不存在或已软删按未登录处理
func LoadActor(src ActorLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(KeyUserID)
		if uid == "" {
			resp.Abort(c, resp.CodeUnauthorized, "unauthorized")
			return
		}
		u, err := src.Actor(c.Request.Context(), uid)
		if errors.Is(err, domain.ErrNotFound) {
			resp.Abort(c, resp.CodeUnauthorized, "account not found")
			return
		}
		if err != nil {
			_ = c.Error(err)
			resp.Abort(c, resp.CodeServerError, "load actor failed")
			return
		}
		c.Set(KeyActor, u)
		c.Set(KeyRole, string(u.Role))
		c.Next()
	}
}

func ActorFrom(c *gin.Context) *domain.User {
	if v, ok := c.Get(KeyActor); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
