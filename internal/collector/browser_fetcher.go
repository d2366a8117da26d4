package collector

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// BrowserFetcher 通过 headless Chrome 渲染列表页后取整页 HTML，适用于依赖 JS 渲染的索引页。
// 整个进程复用一个浏览器实例，每次抓取开一个新标签页。
type BrowserFetcher struct {
	Timeout time.Duration

	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewBrowserFetcher 启动浏览器执行器；调用方负责 Close
func NewBrowserFetcher(timeout time.Duration, userAgent string) *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.UserAgent(userAgentOrDefault(userAgent)))
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// 预热浏览器，避免首个请求耗时过长
	if err := chromedp.Run(browserCtx); err != nil {
		log.Printf("warn: warmup chromedp failed: %v", err)
	}

	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &BrowserFetcher{
		Timeout:       timeout,
		browserCtx:    browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
	}
}

func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	tabCtx, cancel := context.WithTimeout(tabCtx, b.Timeout)
	defer cancel()

	// 调用方取消时同步关闭标签页
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	// Navigate 本身只在网络层失败时报错，HTTP 状态要从主文档响应里取
	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(url))
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	if err := checkResponse(url, resp); err != nil {
		return "", err
	}

	var html string
	err = chromedp.Run(tabCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return html, nil
}

// checkResponse 把非 2xx 的主文档响应归为抓取失败；没有网络响应（about:、data: 等）时不做判断
func checkResponse(url string, resp *network.Response) error {
	if resp == nil {
		return nil
	}
	status := int(resp.Status)
	if status < 200 || status > 299 {
		text := resp.StatusText
		if text == "" {
			text = http.StatusText(status)
		}
		return &FetchError{URL: url, StatusCode: status, Err: fmt.Errorf("unexpected status %d %s", status, text)}
	}
	return nil
}

// Close 关闭浏览器及其执行器
func (b *BrowserFetcher) Close() {
	b.cancelBrowser()
	b.cancelAlloc()
}

func userAgentOrDefault(ua string) string {
	if ua == "" {
		return defaultUserAgent
	}
	return ua
}
