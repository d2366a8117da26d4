package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LJTian/IndexNewsHub/internal/collector"
	"github.com/LJTian/IndexNewsHub/internal/scraper"
	"github.com/LJTian/IndexNewsHub/internal/storage"
)

// 单次请求允许的最大页数，避免一次请求对源站发起过多访问
const maxPagesPerRequest = 20

// NewsRunner 执行一次带锁、带记录的采集
type NewsRunner interface {
	Run(ctx context.Context, trigger string, date scraper.Date, maxPages, maxNews int) (*collector.Report, error)
}

// RunLister 读取最近的运行记录
type RunLister interface {
	ListRuns(limit int) ([]storage.ScrapeRun, error)
}

type Server struct {
	runner          NewsRunner
	runs            RunLister
	defaultMaxPages int
	defaultMaxNews  int
}

func NewServer(runner NewsRunner, runs RunLister, defaultMaxPages, defaultMaxNews int) *Server {
	if defaultMaxPages <= 0 {
		defaultMaxPages = scraper.DefaultMaxPages
	}
	if defaultMaxNews <= 0 {
		defaultMaxNews = scraper.DefaultMaxNews
	}
	return &Server{
		runner:          runner,
		runs:            runs,
		defaultMaxPages: defaultMaxPages,
		defaultMaxNews:  defaultMaxNews,
	}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/news", s.listNews)
		v1.GET("/runs", s.listRuns)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listNews 采集指定日期（dd/mm/yyyy，缺省为当天）的新闻标题，一行一条给前端表单使用
func (s *Server) listNews(c *gin.Context) {
	date := scraper.Today()
	if raw := c.Query("date"); raw != "" {
		d, err := scraper.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "invalid_date",
				"message": "date must be in dd/mm/yyyy format",
			})
			return
		}
		date = d
	}

	maxPages, ok := positiveQuery(c, "maxPages", s.defaultMaxPages)
	if !ok || maxPages > maxPagesPerRequest {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "invalid_limit",
			"message": "maxPages must be between 1 and " + strconv.Itoa(maxPagesPerRequest),
		})
		return
	}
	maxNews, ok := positiveQuery(c, "maxNews", s.defaultMaxNews)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "invalid_limit",
			"message": "maxNews must be a positive integer",
		})
		return
	}

	report, err := s.runner.Run(c.Request.Context(), "api", date, maxPages, maxNews)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrScrapeBusy):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"code":    "busy",
				"message": "another scrape is in progress, retry later",
			})
		case errors.Is(err, scraper.ErrInvalidLimit):
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "invalid_limit",
				"message": err.Error(),
			})
		default:
			log.Printf("api: scrape news error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "internal_error",
				"message": "internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    report.Result(),
	})
}

func (s *Server) listRuns(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusOK, gin.H{"code": "ok", "message": "success", "data": []storage.ScrapeRun{}})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	runs, err := s.runs.ListRuns(limit)
	if err != nil {
		log.Printf("api: list runs error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data":    runs,
	})
}

// positiveQuery 读取正整数查询参数；缺省时返回 def
func positiveQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
