package scraper

import (
	"context"
	"log"
	"time"

	"github.com/LJTian/IndexNewsHub/internal/collector"
)

const (
	defaultLockTTL  = 2 * time.Minute
	defaultLockWait = 30 * time.Second
)

// RunRecorder 由存储层实现：全局采集锁 + 运行记录
type RunRecorder interface {
	LockScrape(ctx context.Context, ttl, wait time.Duration) (func(), error)
	RecordRun(trigger, targetDate string, maxPages, maxNews int, report *collector.Report, started, finished time.Time) error
}

// Runner 在 Service 外面加上全局锁和运行记录，供 API 与定时任务共用
type Runner struct {
	Service  *Service
	Recorder RunRecorder
	LockTTL  time.Duration
	LockWait time.Duration
}

func NewRunner(svc *Service, rec RunRecorder) *Runner {
	return &Runner{Service: svc, Recorder: rec, LockTTL: defaultLockTTL, LockWait: defaultLockWait}
}

// Run 执行一次采集。记录写入失败只打日志，不影响返回结果。
func (r *Runner) Run(ctx context.Context, trigger string, date Date, maxPages, maxNews int) (*collector.Report, error) {
	if maxPages <= 0 || maxNews <= 0 {
		return r.Service.ScrapeNewsReport(ctx, date, maxPages, maxNews)
	}
	if date.IsZero() {
		date = Today()
	}

	if r.Recorder != nil {
		release, err := r.Recorder.LockScrape(ctx, r.LockTTL, r.LockWait)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	started := time.Now()
	report, err := r.Service.ScrapeNewsReport(ctx, date, maxPages, maxNews)
	if err != nil {
		return nil, err
	}

	if r.Recorder != nil {
		if err := r.Recorder.RecordRun(trigger, date.String(), maxPages, maxNews, report, started, time.Now()); err != nil {
			log.Printf("record %s run error: %v", trigger, err)
		}
	}
	return report, nil
}
