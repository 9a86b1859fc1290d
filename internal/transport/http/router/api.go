package router

import (
	"github.com/gin-gonic/gin"

	"go-gin-user-admin/internal/transport/http/handler"
	mdw "go-gin-user-admin/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：/api/v1/auth/login 公开，/api/v1/me 需要登录
func NewAPIEngine(d Deps) *gin.Engine {
	r := base(d)

	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT), mdw.LoadActor(d.Actors))

	MountAPI(api, authed, handler.NewAuthHandler(d.Users, d.JWT))
	return r
}
