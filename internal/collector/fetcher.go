package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// NoDateLabel 文章容器中找不到日期元素时使用的占位文案
const NoDateLabel = "No date found"

var (
	// ErrFetch 单页请求失败（网络错误、超时或 HTTP 状态异常）
	ErrFetch = errors.New("fetch listing page failed")
	// ErrParse 整页 HTML 无法解析
	ErrParse = errors.New("parse listing page failed")
)

// ArticleRecord 列表页中的一条文章摘要，只在单页解析期间存在
type ArticleRecord struct {
	Title          string
	Link           string
	PublishedLabel string
}

// PageFetcher 抽象“取一页列表”的能力：HTTP（colly）或无头浏览器（chromedp）
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError 单页请求失败。StatusCode 为 0 表示请求没有拿到响应（超时、连接被拒、DNS 失败等）
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("collector: fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("collector: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// ParseError 整页文档无法解析；与单篇文章结构缺失（直接跳过）是两条不同的路径
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("collector: parse html: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// NewPageFetcher 按模式创建抓取器：http（默认，colly）或 browser（chromedp）。
// 返回的 close 用于释放浏览器等资源。
func NewPageFetcher(mode string, timeout time.Duration, userAgent string) (PageFetcher, func()) {
	switch mode {
	case "browser":
		b := NewBrowserFetcher(timeout, userAgent)
		return b, b.Close
	case "", "http":
	default:
		log.Printf("warn: unknown fetch mode %q, falling back to http", mode)
	}
	return NewCollyFetcher(timeout, userAgent), func() {}
}
