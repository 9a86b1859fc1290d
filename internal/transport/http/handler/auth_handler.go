package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-user-admin/internal/core/auth"
	"go-gin-user-admin/internal/domain"
	"go-gin-user-admin/internal/service"
	"go-gin-user-admin/internal/transport/http/ez"
	mdw "go-gin-user-admin/internal/transport/http/middleware"
)

// AuthHandler 用户端：登录换 token、查询自己
type AuthHandler struct {
	svc   *service.UserService
	jwter *auth.JWTer
}

func NewAuthHandler(svc *service.UserService, jwter *auth.JWTer) *AuthHandler {
	return &AuthHandler{svc: svc, jwter: jwter}
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// MountAPI public 无需登录，authed 已挂 AuthJWT + LoadActor
func (h *AuthHandler) MountAPI(public, authed *gin.RouterGroup) {
	ez.RegisterAction(ez.New(public), ez.Action[loginIn, loginOut]{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Binder:  ez.BindJSON,
		Handler: h.login,
	})
	ez.RegisterAction(ez.New(authed), ez.Action[struct{}, *domain.User]{
		Method:  http.MethodGet,
		Path:    "/me",
		Binder:  ez.BindNone,
		Auth:    true,
		Handler: h.me,
	})
}

func (h *AuthHandler) login(c *gin.Context, in *loginIn) (loginOut, error) {
	u, err := h.svc.Authenticate(c.Request.Context(), in.Email, in.Password)
	if errors.Is(err, service.ErrBadCredentials) {
		return loginOut{}, ez.Unauthorized("invalid credentials")
	}
	if err != nil {
		return loginOut{}, ez.Internal("login failed", err)
	}
	tok, err := h.jwter.Issue(u.ID, u.Role)
	if err != nil {
		return loginOut{}, ez.Internal("issue token failed", err)
	}
	return loginOut{Token: tok, User: u}, nil
}

func (h *AuthHandler) me(c *gin.Context, _ *struct{}) (*domain.User, error) {
	u := mdw.ActorFrom(c)
	if u == nil {
		return nil, ez.Unauthorized("unauthorized")
	}
	return u, nil
}
