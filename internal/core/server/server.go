package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-user-admin/internal/core/config"
	"go-gin-user-admin/internal/core/logger"
	mdw "go-gin-user-admin/internal/transport/http/middleware"
)

// NewEngine gin 基础引擎：panic 恢复 + CORS。origins 为空时允许所有来源
func NewEngine(l *zap.Logger, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(mdw.Recovery(l))

	cc := cors.DefaultConfig()
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
		cc.AllowCredentials = true
	}
	cc.AddAllowHeaders("Authorization", mdw.KeyRequestID, mdw.MethodHeader)
	cc.AddExposeHeaders(mdw.KeyRequestID)
	r.Use(cors.New(cc))
	return r
}

func BuildServer(c config.HTTP, handler http.Handler, l *zap.Logger) *http.Server {
	return &http.Server{
		Addr:           Addr(c.Host, c.Port),
		Handler:        handler,
		ReadTimeout:    seconds(c.ReadTimeoutSec, 15),
		WriteTimeout:   seconds(c.WriteTimeoutSec, 15),
		IdleTimeout:    seconds(c.IdleTimeoutSec, 60),
		MaxHeaderBytes: 1 << 20, // 1MB
		ErrorLog:       logger.ToStdLogger(l, zapcore.WarnLevel),
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// Run 阻塞直到 ctx 结束，然后优雅关闭
func Run(ctx context.Context, srv *http.Server, l *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	l.Info("http shutting down", zap.String("addr", srv.Addr))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", srv.Addr, err)
	}
	return <-errCh
}

func seconds(n, def int) time.Duration {
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}
