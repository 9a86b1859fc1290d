package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"go-gin-user-admin/internal/core/server"
	mdw "go-gin-user-admin/internal/transport/http/middleware"
)

// base 两个引擎相同的中间件链和 /health、/metrics
func base(d Deps) *gin.Engine {
	r := server.NewEngine(d.Log, d.Limits.AllowedOrigins)

	lim := d.Limits
	chain := []gin.HandlerFunc{mdw.RequestID()}
	if lim.RPS > 0 {
		chain = append(chain, mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst))
	}
	if lim.PerIPRPS > 0 {
		chain = append(chain, mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst))
	}
	if lim.MaxConcurrent > 0 {
		chain = append(chain, mdw.ConcurrencyLimit(lim.MaxConcurrent))
	}
	if lim.MaxBodyBytes > 0 {
		chain = append(chain, mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	chain = append(chain,
		mdw.Timeout(d.timeout()),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)
	r.Use(chain...)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
