package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultMaxBodyBytes = 4 << 20 // 4MB，单个列表页足够
	defaultUserAgent    = "IndexNewsHubBot/1.0"
)

// CollyFetcher 用 colly 抓取单个列表页：固定超时、不重试，失败统一包装为 *FetchError
type CollyFetcher struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int
}

// NewCollyFetcher 返回带默认值的抓取器，timeout <= 0 时使用 10s
func NewCollyFetcher(timeout time.Duration, userAgent string) *CollyFetcher {
	return &CollyFetcher{Timeout: timeout, UserAgent: userAgent}
}

func (f *CollyFetcher) newCollector() *colly.Collector {
	ua := f.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	// 每次抓取新建 collector，避免 colly 的“已访问”去重影响同一 URL 的重复抓取
	c := colly.NewCollector(colly.UserAgent(ua))
	c.SetRequestTimeout(timeout)
	c.MaxBodySize = defaultMaxBodyBytes
	if f.MaxBodyBytes > 0 {
		c.MaxBodySize = f.MaxBodyBytes
	}
	return c
}

// Fetch 抓取单页。colly 的请求不接收 context，ctx 只在发出请求前检查一次，
// 已发出的请求最长要等到 Timeout 才返回。
// 响应体达到 MaxBodyBytes 时视为被截断，按抓取失败处理。
func (f *CollyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	c := f.newCollector()

	var (
		body    []byte
		status  int
		maxBody = c.MaxBodySize
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil {
		return "", &FetchError{URL: url, StatusCode: status, Err: err}
	}
	if body == nil {
		return "", &FetchError{URL: url, StatusCode: status, Err: errors.New("empty response")}
	}
	if maxBody > 0 && len(body) >= maxBody {
		return "", &FetchError{URL: url, StatusCode: status, Err: fmt.Errorf("response body exceeds %d bytes", maxBody)}
	}
	return string(body), nil
}
