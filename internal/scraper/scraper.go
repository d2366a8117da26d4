package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/LJTian/IndexNewsHub/internal/collector"
)

const (
	// DefaultBaseURL CNBC Indonesia 新闻索引页
	DefaultBaseURL  = "https://www.cnbcindonesia.com/news/indeks/3"
	DefaultMaxPages = 1
	DefaultMaxNews  = 5
)

// ErrInvalidLimit maxPages / maxNews 必须为正数
var ErrInvalidLimit = errors.New("scraper: maxPages and maxNews must be positive")

// Service 对外唯一的采集入口：给定日期与上限，返回按顺序排列的标题列表
type Service struct {
	BaseURL   string
	Collector *collector.Collector
}

// New 以 baseURL 为列表页地址创建服务；baseURL 为空时使用 DefaultBaseURL
func New(baseURL string, c *collector.Collector) *Service {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Service{BaseURL: baseURL, Collector: c}
}

// PageURL 生成第 i 页（从 1 开始）的地址：BaseURL?page=i，保留 BaseURL 已有的查询参数。
// 注意：目标日期目前并不参与 URL 构造。
func (s *Service) PageURL(i int) string {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return s.BaseURL + "?page=" + strconv.Itoa(i)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(i))
	u.RawQuery = q.Encode()
	return u.String()
}

// ScrapeNewsReport 执行一次采集并返回完整报告
func (s *Service) ScrapeNewsReport(ctx context.Context, date Date, maxPages, maxNews int) (*collector.Report, error) {
	if maxPages <= 0 || maxNews <= 0 {
		return nil, fmt.Errorf("%w: maxPages=%d maxNews=%d", ErrInvalidLimit, maxPages, maxNews)
	}
	if date.IsZero() {
		date = Today()
	}

	// 日期只做格式校验与记录，不用于过滤列表页（与现有行为保持一致）
	log.Printf("scrape news: date=%s maxPages=%d maxNews=%d base=%s", date, maxPages, maxNews, s.BaseURL)

	report := s.Collector.Run(ctx, maxPages, maxNews, s.PageURL)
	log.Printf("scrape news done: titles=%d pages=%d failed=%d", len(report.Titles), len(report.Pages), report.Failed())
	return report, nil
}

// ScrapeNews 返回最多 maxNews 条标题；一条都没有时返回只含哨兵文案的列表
func (s *Service) ScrapeNews(ctx context.Context, date Date, maxPages, maxNews int) ([]string, error) {
	report, err := s.ScrapeNewsReport(ctx, date, maxPages, maxNews)
	if err != nil {
		return nil, err
	}
	return report.Result(), nil
}

// ScrapeNewsString 接受 dd/mm/yyyy 字符串日期，格式错误时在任何网络请求之前返回 *DateFormatError
func (s *Service) ScrapeNewsString(ctx context.Context, date string, maxPages, maxNews int) ([]string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	return s.ScrapeNews(ctx, d, maxPages, maxNews)
}
