package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LJTian/IndexNewsHub/internal/collector"
)

// ScrapeRun 一次采集的运行记录：只保存计数与每页状态，不保存标题
type ScrapeRun struct {
	ID           string            `gorm:"primaryKey;size:36" json:"id"`
	Trigger      string            `gorm:"size:16;index" json:"trigger"` // api / cron / cli
	TargetDate   string            `gorm:"size:10;index" json:"targetDate"`
	MaxPages     int               `json:"maxPages"`
	MaxNews      int               `json:"maxNews"`
	PagesVisited int               `json:"pagesVisited"`
	PagesFailed  int               `json:"pagesFailed"`
	Articles     int               `json:"articles"`
	Skipped      int               `json:"skipped"`
	Sentinel     bool              `gorm:"index" json:"sentinel"`
	PageReport   datatypes.JSONMap `gorm:"type:jsonb" json:"pageReport"`
	StartedAt    time.Time         `gorm:"index" json:"startedAt"`
	FinishedAt   time.Time         `json:"finishedAt"`

	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&ScrapeRun{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// NewScrapeRun 把采集报告整理成运行记录
func NewScrapeRun(trigger, targetDate string, maxPages, maxNews int, report *collector.Report, started, finished time.Time) *ScrapeRun {
	run := &ScrapeRun{
		ID:         uuid.NewString(),
		Trigger:    trigger,
		TargetDate: targetDate,
		MaxPages:   maxPages,
		MaxNews:    maxNews,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if report == nil {
		run.Sentinel = true
		run.PageReport = datatypes.JSONMap{"pages": []any{}}
		return run
	}

	pages := make([]any, 0, len(report.Pages))
	for _, p := range report.Pages {
		entry := map[string]any{
			"index":    p.Index,
			"url":      p.URL,
			"status":   string(p.Status),
			"articles": p.Articles,
			"skipped":  p.Skipped,
			"ms":       p.Duration.Milliseconds(),
		}
		if p.Err != nil {
			entry["error"] = p.Err.Error()
		}
		pages = append(pages, entry)

		run.Skipped += p.Skipped
	}

	run.PagesVisited = len(report.Pages)
	run.PagesFailed = report.Failed()
	run.Articles = len(report.Titles)
	run.Sentinel = len(report.Titles) == 0
	run.PageReport = datatypes.JSONMap{"pages": pages}
	return run
}

// SaveRun 写入一条运行记录，并清掉最近运行列表的缓存
func (s *Store) SaveRun(run *ScrapeRun) error {
	if err := s.DB.Create(run).Error; err != nil {
		return fmt.Errorf("storage: save run %s: %w", run.ID, err)
	}
	s.invalidateRuns(context.Background())
	return nil
}

const (
	runsCacheTTL    = time.Minute
	runsCachePrefix = "runs:list:"
	// 记录已写入的列表缓存 key，写入新记录时一并删除
	runsCacheKeys = "runs:list:keys"
)

// ListRuns 按开始时间倒序返回最近的运行记录，Redis 做短时缓存
func (s *Store) ListRuns(limit int) ([]ScrapeRun, error) {
	return s.listRuns(context.Background(), limit, func(limit int) ([]ScrapeRun, error) {
		var list []ScrapeRun
		if err := s.DB.Model(&ScrapeRun{}).Order("started_at DESC").Limit(limit).Find(&list).Error; err != nil {
			return nil, err
		}
		return list, nil
	})
}

func (s *Store) listRuns(ctx context.Context, limit int, load func(limit int) ([]ScrapeRun, error)) ([]ScrapeRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 20
	}
	cacheKey := fmt.Sprintf("%s%d", runsCachePrefix, limit)

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []ScrapeRun
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	list, err := load(limit)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			pipe := s.Redis.TxPipeline()
			pipe.Set(ctx, cacheKey, bs, runsCacheTTL)
			pipe.SAdd(ctx, runsCacheKeys, cacheKey)
			pipe.Expire(ctx, runsCacheKeys, runsCacheTTL)
			if _, err := pipe.Exec(ctx); err != nil {
				log.Printf("warn: cache runs list: %v", err)
			}
		}
	}
	return list, nil
}

func (s *Store) invalidateRuns(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	keys, err := s.Redis.SMembers(ctx, runsCacheKeys).Result()
	if err != nil {
		log.Printf("warn: invalidate runs cache: %v", err)
		return
	}
	keys = append(keys, runsCacheKeys)
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("warn: invalidate runs cache: %v", err)
	}
}

// RecordRun 整理并保存一次采集的运行记录
func (s *Store) RecordRun(trigger, targetDate string, maxPages, maxNews int, report *collector.Report, started, finished time.Time) error {
	return s.SaveRun(NewScrapeRun(trigger, targetDate, maxPages, maxNews, report, started, finished))
}
