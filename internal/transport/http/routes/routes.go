// Package routes keeps a table of named routes so handlers can build
// redirect targets without hard-coding paths.
package routes

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	UsersIndex   = "users.index"
	UsersCreate  = "users.create"
	UsersStore   = "users.store"
	UsersEdit    = "users.edit"
	UsersUpdate  = "users.update"
	UsersDestroy = "users.destroy"
)

var (
	mu    sync.RWMutex
	named = map[string]string{}
)

// Register 记录 name → 完整路径（带 :param 占位）；同名重复注册以最后一次为准
func Register(name, path string) {
	mu.Lock()
	defer mu.Unlock()
	named[name] = path
}

// Handle 挂路由的同时登记名字
func Handle(g *gin.RouterGroup, method, path, name string, h ...gin.HandlerFunc) {
	g.Handle(method, path, h...)
	Register(name, joinPath(g.BasePath(), path))
}

// URL 按顺序用 params 填充 :param 段；参数个数不匹配或名字未注册返回错误
func URL(name string, params ...string) (string, error) {
	mu.RLock()
	path, ok := named[name]
	mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("route %q not registered", name)
	}

	segs := strings.Split(path, "/")
	i := 0
	for k, s := range segs {
		if !strings.HasPrefix(s, ":") && !strings.HasPrefix(s, "*") {
			continue
		}
		if i >= len(params) {
			return "", fmt.Errorf("route %q: missing param %s", name, s)
		}
		segs[k] = url.PathEscape(params[i])
		i++
	}
	if i != len(params) {
		return "", fmt.Errorf("route %q: %d params given, %d used", name, len(params), i)
	}
	return strings.Join(segs, "/"), nil
}

// MustURL 路由名是编译期常量，出错说明注册漏了
func MustURL(name string, params ...string) string {
	u, err := URL(name, params...)
	if err != nil {
		panic(err)
	}
	return u
}

// Names 已注册的路由名（排序后）
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(named))
	for n := range named {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func joinPath(base, rel string) string {
	if rel == "" || rel == "/" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rel, "/")
}
