package middleware

import (
	"net/http"
	"strings"
)

const (
	MethodField  = "_method"
	MethodHeader = "X-HTTP-Method-Override"
)

var overridable = map[string]struct{}{
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// MethodOverride HTML 表单只能发 GET/POST；POST 携带 _method 时改写成 PUT/PATCH/DELETE。
// 必须包在 gin 引擎外层，路由匹配发生在 gin 内部
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			m := r.Header.Get(MethodHeader)
			if m == "" && isForm(r) {
				m = r.PostFormValue(MethodField)
			}
			m = strings.ToUpper(strings.TrimSpace(m))
			if _, ok := overridable[m]; ok {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}
