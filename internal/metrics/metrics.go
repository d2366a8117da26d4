// Package metrics 汇总采集引擎的 prometheus 指标，由 cmd/api 通过 /metrics 暴露。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "indexnewshub"

var (
	// PagesTotal 按结果分类的列表页数：ok / fetch_error / parse_error
	PagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_total",
		Help:      "Listing pages processed, by outcome.",
	}, []string{"status"})

	ArticlesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_extracted_total",
		Help:      "Article records extracted from listing pages.",
	})

	// ArticlesSkipped 缺少标题或链接而被跳过的文章容器
	ArticlesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_skipped_total",
		Help:      "Article containers skipped because of a missing heading or anchor.",
	})

	SentinelResults = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sentinel_results_total",
		Help:      "Scrapes that returned the no-news sentinel.",
	})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "page_fetch_seconds",
		Help:      "Duration of single listing page fetches.",
		Buckets:   prometheus.DefBuckets,
	})
)
