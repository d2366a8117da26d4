package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/LJTian/IndexNewsHub/internal/scraper"
)

// 单次巡检的整体超时，覆盖多页抓取与等待采集锁
const runTimeout = 5 * time.Minute

// Scheduler 定时对当天的索引页做一次巡检采集并写入运行记录，
// 连续出现哨兵结果通常意味着源站页面结构发生了变化。
type Scheduler struct {
	cron     *cron.Cron
	runner   *scraper.Runner
	maxPages int
	maxNews  int
}

func New(spec string, runner *scraper.Runner, maxPages, maxNews int) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:     c,
		runner:   runner,
		maxPages: maxPages,
		maxNews:  maxNews,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}

	return s, nil
}

// Cron 暴露底层 cron，便于追加其它定时任务
func (s *Scheduler) Cron() *cron.Cron {
	return s.cron
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce 对外暴露的单次执行入口，方便手动触发巡检
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start canary scrape job...")

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	report, err := s.runner.Run(ctx, "cron", scraper.Today(), s.maxPages, s.maxNews)
	if err != nil {
		log.Printf("canary scrape error: %v", err)
		return
	}
	if len(report.Titles) == 0 {
		log.Printf("canary scrape got 0 titles (%d pages, %d failed), listing markup may have changed",
			len(report.Pages), report.Failed())
		return
	}
	log.Printf("canary scrape done, titles=%d pages=%d failed=%d", len(report.Titles), len(report.Pages), report.Failed())
}
