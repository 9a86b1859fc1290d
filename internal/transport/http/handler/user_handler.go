package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-user-admin/internal/domain"
	"go-gin-user-admin/internal/service"
	mdw "go-gin-user-admin/internal/transport/http/middleware"
	resp "go-gin-user-admin/internal/transport/http/response"
	"go-gin-user-admin/internal/transport/http/routes"
)

// UserHandler 管理端用户资源：列表 / 新建表单 / 新建 / 编辑表单 / 更新 / 软删
type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, l *zap.Logger) *UserHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserHandler{svc: svc, log: l}
}

func (h *UserHandler) Priority() int { return 10 }

// MountAdmin 挂到 /admin/v1，同时登记路由名
func (h *UserHandler) MountAdmin(g *gin.RouterGroup) {
	routes.Handle(g, http.MethodGet, "/users", routes.UsersIndex, h.Index)
	routes.Handle(g, http.MethodGet, "/users/create", routes.UsersCreate, h.CreateForm)
	routes.Handle(g, http.MethodPost, "/users", routes.UsersStore, h.Store)
	routes.Handle(g, http.MethodGet, "/users/:id/edit", routes.UsersEdit, h.Edit)
	routes.Handle(g, http.MethodPut, "/users/:id", routes.UsersUpdate, h.Update)
	g.PATCH("/users/:id", h.Update)
	routes.Handle(g, http.MethodDelete, "/users/:id", routes.UsersDestroy, h.Destroy)
}

func (h *UserHandler) Index(c *gin.Context) {
	var q service.ListQuery
	_ = c.ShouldBindQuery(&q)

	page, err := h.svc.List(c.Request.Context(), mdw.ActorFrom(c), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	st := takeForm(c, h.log)
	c.JSON(http.StatusOK, resp.OK(gin.H{
		"total":  page.Total,
		"items":  page.Items,
		"status": st.Status,
	}))
}

func (h *UserHandler) CreateForm(c *gin.Context) {
	if err := h.svc.CreateForm(c.Request.Context(), mdw.ActorFrom(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(takeForm(c, h.log)))
}

// Store 绑定失败按空输入处理：先让 policy 判定，再由校验报字段错误
func (h *UserHandler) Store(c *gin.Context) {
	var in service.CreateInput
	_ = c.ShouldBind(&in)

	_, err := h.svc.Create(c.Request.Context(), mdw.ActorFrom(c), in)
	if ve, ok := service.IsValidation(err); ok {
		h.back(c, ve, in.OldInput(), routes.MustURL(routes.UsersCreate))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, routes.MustURL(routes.UsersIndex), "User created.")
}

func (h *UserHandler) Edit(c *gin.Context) {
	target, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.EditForm(c.Request.Context(), mdw.ActorFrom(c), target); err != nil {
		h.fail(c, err)
		return
	}
	st := takeForm(c, h.log)
	c.JSON(http.StatusOK, resp.OK(gin.H{
		"user":   target,
		"errors": st.Errors,
		"old":    st.Old,
	}))
}

func (h *UserHandler) Update(c *gin.Context) {
	target, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	var in service.UpdateInput
	_ = c.ShouldBind(&in)

	_, err = h.svc.Update(c.Request.Context(), mdw.ActorFrom(c), target, in)
	if ve, ok := service.IsValidation(err); ok {
		h.back(c, ve, in.OldInput(), routes.MustURL(routes.UsersEdit, target.ID))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, routes.MustURL(routes.UsersIndex), "User updated.")
}

// Destroy 目标查找包含已软删记录，重复删除不报 404
func (h *UserHandler) Destroy(c *gin.Context) {
	target, err := h.svc.GetWithDeleted(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), mdw.ActorFrom(c), target); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, routes.MustURL(routes.UsersIndex), "User deleted.")
}

func (h *UserHandler) back(c *gin.Context, ve *service.ValidationError, old map[string]string, to string) {
	flash(c, flashErrors, ve.Fields)
	flash(c, flashOld, old)
	saveSession(c, h.log)
	c.Redirect(http.StatusSeeOther, to)
}

func (h *UserHandler) redirect(c *gin.Context, to, status string) {
	flash(c, flashStatus, status)
	saveSession(c, h.log)
	c.Redirect(http.StatusSeeOther, to)
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		resp.Abort(c, resp.CodeForbidden, "This action is unauthorized.")
	case errors.Is(err, domain.ErrNotFound):
		resp.Abort(c, resp.CodeNotFound, "user not found")
	default:
		h.log.Error("user action failed", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		resp.Abort(c, resp.CodeServerError, "")
	}
}
