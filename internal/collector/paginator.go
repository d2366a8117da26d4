package collector

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LJTian/IndexNewsHub/internal/metrics"
)

// NoNewsSentinel 一条新闻都没拿到时返回的唯一元素
const NoNewsSentinel = "Tidak ada berita ditemukan"

// PageStatus 单页处理结果
type PageStatus string

const (
	PageOK         PageStatus = "ok"
	PageFetchError PageStatus = "fetch_error"
	PageParseError PageStatus = "parse_error"
)

// PageOutcome 记录单个列表页的处理情况，用于日志与运行报告
type PageOutcome struct {
	Index    int
	URL      string
	Status   PageStatus
	Articles int
	Skipped  int
	Err      error
	Duration time.Duration
}

// Report 一次采集的完整结果：标题（已截断到 maxNews）与每页情况
type Report struct {
	Titles []string
	Pages  []PageOutcome
}

// Result 返回对外的标题列表；为空时返回哨兵列表
func (r *Report) Result() []string {
	if len(r.Titles) == 0 {
		return []string{NoNewsSentinel}
	}
	out := make([]string, len(r.Titles))
	copy(out, r.Titles)
	return out
}

// Failed 返回请求或解析失败的页数
func (r *Report) Failed() int {
	n := 0
	for _, p := range r.Pages {
		if p.Status != PageOK {
			n++
		}
	}
	return n
}

// Collector 分页控制器：按页号顺序抓取、抽取、累加标题，达到上限后提前停止
type Collector struct {
	Fetcher   PageFetcher
	Extractor *Extractor
	// Parse 默认为 ParseMarkup，测试中可替换
	Parse func(raw string) (Document, error)
	// Concurrency <= 1 时严格串行；大于 1 时按窗口并发抓取，结果仍按页号顺序合并
	Concurrency int
}

// NewCollector 使用默认选择器和串行抓取
func NewCollector(f PageFetcher) *Collector {
	return &Collector{
		Fetcher:     f,
		Extractor:   NewExtractor(DefaultSelectors()),
		Parse:       ParseMarkup,
		Concurrency: 1,
	}
}

// Collect 返回最多 maxNews 条标题；一条都没有时返回哨兵列表
func (c *Collector) Collect(ctx context.Context, maxPages, maxNews int, pageURL func(int) string) []string {
	return c.Run(ctx, maxPages, maxNews, pageURL).Result()
}

// Run 执行分页采集。单页失败只记录并跳过，不会中断整体采集。
func (c *Collector) Run(ctx context.Context, maxPages, maxNews int, pageURL func(int) string) *Report {
	report := &Report{}
	if maxPages <= 0 || maxNews <= 0 {
		metrics.SentinelResults.Inc()
		return report
	}

	workers := c.Concurrency
	if workers < 1 {
		workers = 1
	}

	var titles []string
	done := false
	for start := 1; start <= maxPages && !done; start += workers {
		if err := ctx.Err(); err != nil {
			log.Printf("collect stopped before page %d: %v", start, err)
			break
		}

		end := start + workers - 1
		if end > maxPages {
			end = maxPages
		}
		window := c.fetchWindow(ctx, start, end, pageURL)

		for _, pr := range window {
			report.Pages = append(report.Pages, pr.outcome)
			for _, rec := range pr.records {
				titles = append(titles, rec.Title)
			}
			if len(titles) >= maxNews {
				done = true
				break
			}
		}
	}

	if len(titles) > maxNews {
		titles = titles[:maxNews]
	}
	report.Titles = titles

	if len(titles) == 0 {
		metrics.SentinelResults.Inc()
		log.Printf("collect got 0 titles from %d pages (%d failed)", len(report.Pages), report.Failed())
	}
	return report
}

type pageResult struct {
	outcome PageOutcome
	records []ArticleRecord
}

// fetchWindow 并发处理 [start, end] 区间的页，结果按页号顺序返回
func (c *Collector) fetchWindow(ctx context.Context, start, end int, pageURL func(int) string) []pageResult {
	results := make([]pageResult, end-start+1)
	if len(results) == 1 {
		results[0] = c.visit(ctx, start, pageURL(start))
		return results
	}

	g := new(errgroup.Group)
	g.SetLimit(len(results))
	for i := start; i <= end; i++ {
		idx := i
		url := pageURL(idx)
		g.Go(func() error {
			results[idx-start] = c.visit(ctx, idx, url)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// visit 抓取并抽取一页；请求失败与解析失败分别归类
func (c *Collector) visit(ctx context.Context, index int, url string) pageResult {
	out := PageOutcome{Index: index, URL: url}

	begin := time.Now()
	raw, err := c.Fetcher.Fetch(ctx, url)
	out.Duration = time.Since(begin)
	metrics.FetchDuration.Observe(out.Duration.Seconds())
	if err != nil {
		out.Status = PageFetchError
		out.Err = err
		metrics.PagesTotal.WithLabelValues(string(out.Status)).Inc()
		log.Printf("collect page %d: %v", index, err)
		return pageResult{outcome: out}
	}

	parse := c.Parse
	if parse == nil {
		parse = ParseMarkup
	}
	doc, err := parse(raw)
	if err != nil {
		if !errors.Is(err, ErrParse) {
			err = &ParseError{Err: err}
		}
		out.Status = PageParseError
		out.Err = err
		metrics.PagesTotal.WithLabelValues(string(out.Status)).Inc()
		log.Printf("collect page %d: %v", index, err)
		return pageResult{outcome: out}
	}

	extractor := c.Extractor
	if extractor == nil {
		extractor = NewExtractor(DefaultSelectors())
	}
	records, skipped := extractor.Scan(doc)

	out.Status = PageOK
	out.Articles = len(records)
	out.Skipped = skipped
	metrics.PagesTotal.WithLabelValues(string(out.Status)).Inc()
	metrics.ArticlesExtracted.Add(float64(len(records)))
	metrics.ArticlesSkipped.Add(float64(skipped))
	if skipped > 0 {
		log.Printf("collect page %d: %d articles, %d malformed containers skipped", index, len(records), skipped)
	}
	return pageResult{outcome: out, records: records}
}
