package main

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LJTian/IndexNewsHub/internal/api"
	"github.com/LJTian/IndexNewsHub/internal/collector"
	"github.com/LJTian/IndexNewsHub/internal/config"
	"github.com/LJTian/IndexNewsHub/internal/scheduler"
	"github.com/LJTian/IndexNewsHub/internal/scraper"
	"github.com/LJTian/IndexNewsHub/internal/storage"
)

func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	fetcher, closeFetcher := collector.NewPageFetcher(cfg.FetchMode, cfg.FetchTimeout, cfg.UserAgent)
	defer closeFetcher()

	c := collector.NewCollector(fetcher)
	c.Concurrency = cfg.FetchConcurrency
	runner := scraper.NewRunner(scraper.New(cfg.NewsBaseURL, c), store)

	// 定时巡检：按默认上限采集当天列表页并记录运行情况
	s, err := scheduler.New(cfg.CronSpec, runner, cfg.DefaultMaxPages, cfg.DefaultMaxNews)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()
	defer s.Stop()

	r := gin.Default()
	// 若配置了全局访问密码，则启用 Basic Auth 保护（/health 仍然免认证）
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	apiServer := api.NewServer(runner, store, cfg.DefaultMaxPages, cfg.DefaultMaxNews)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// basicAuthMiddleware 为整个站点增加一个简单的 Basic Auth 访问密码。
// 仅当配置了 APP_BASIC_USER / APP_BASIC_PASS 时启用。
// /health 不做认证，便于健康检查。
func basicAuthMiddleware(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
