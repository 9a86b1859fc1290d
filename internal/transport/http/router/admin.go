package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"

	"go-gin-user-admin/internal/transport/http/handler"
	mdw "go-gin-user-admin/internal/transport/http/middleware"
)

const defaultSessionName = "user_admin_session"

// NewAdminEngine 管理端：/admin/v1 下要求 bearer token，角色授权在 service 里按 policy 判定。
// 返回的 handler 外层包了 method override，表单可以用 _method 发 PUT/DELETE
func NewAdminEngine(d Deps) http.Handler {
	r := base(d)

	name := d.Session.Name
	if name == "" {
		name = defaultSessionName
	}
	store := cookie.NewStore([]byte(d.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   d.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	admin := r.Group("/admin/v1")
	admin.Use(
		sessions.Sessions(name, store),
		mdw.AuthJWT(d.JWT),
		mdw.LoadActor(d.Actors),
	)
	MountAdmin(admin, handler.NewUserHandler(d.Users, d.Log))

	var h http.Handler = mdw.MethodOverride(r)
	if d.Limits.MaxBodyBytes > 0 {
		// override 会先读表单，body 上限要套在它外面
		h = http.MaxBytesHandler(h, d.Limits.MaxBodyBytes)
	}
	return h
}
