package handler

import (
	"encoding/json"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// session 里的 flash 用 JSON 字符串存，cookie store 不用额外注册 gob 类型
const (
	flashErrors = "errors"
	flashOld    = "old"
	flashStatus = "status"
)

// formState 表单页回显：上一次提交的错误、旧输入、操作结果提示
type formState struct {
	Errors map[string]string `json:"errors"`
	Old    map[string]string `json:"old"`
	Status string            `json:"status,omitempty"`
}

func flash(c *gin.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	sessions.Default(c).AddFlash(string(b), key)
}

// saveSession 写回 cookie；失败只记日志，不影响本次响应
func saveSession(c *gin.Context, l *zap.Logger) {
	if err := sessions.Default(c).Save(); err != nil {
		l.Warn("session save failed", zap.Error(err))
	}
}

func readFlash(s sessions.Session, key string, out any) {
	for _, f := range s.Flashes(key) {
		if str, ok := f.(string); ok {
			_ = json.Unmarshal([]byte(str), out)
		}
	}
}

// takeForm 取出并清空 flash
func takeForm(c *gin.Context, l *zap.Logger) formState {
	s := sessions.Default(c)
	st := formState{Errors: map[string]string{}, Old: map[string]string{}}
	readFlash(s, flashErrors, &st.Errors)
	readFlash(s, flashOld, &st.Old)
	readFlash(s, flashStatus, &st.Status)
	saveSession(c, l)
	return st
}
