package collector

import (
	"github.com/LJTian/IndexNewsHub/internal/processor"
)

// Selectors 描述列表页的 DOM 结构，默认值对应 CNBC Indonesia 索引页
type Selectors struct {
	Article string
	Heading string
	Link    string
	Date    string
}

// DefaultSelectors 返回默认选择器：article 容器、h2 标题、a 链接、span.date 日期
func DefaultSelectors() Selectors {
	return Selectors{
		Article: "article",
		Heading: "h2",
		Link:    "a",
		Date:    "span.date",
	}
}

// Extractor 从已解析的文档中抽取文章记录
type Extractor struct {
	Selectors Selectors
}

func NewExtractor(sel Selectors) *Extractor {
	return &Extractor{Selectors: sel}
}

// Scan 按文档顺序抽取文章，并返回因结构缺失被跳过的容器数。
// 缺少标题或链接（或清洗后标题为空）的容器直接跳过，不算错误：源站页面结构并不稳定。
func (x *Extractor) Scan(doc Document) ([]ArticleRecord, int) {
	containers := doc.FindAll(x.Selectors.Article)
	records := make([]ArticleRecord, 0, len(containers))
	skipped := 0

	for _, el := range containers {
		heading, ok := el.First(x.Selectors.Heading)
		if !ok {
			skipped++
			continue
		}
		anchor, ok := el.First(x.Selectors.Link)
		if !ok {
			skipped++
			continue
		}
		href, ok := anchor.Attr("href")
		if !ok {
			skipped++
			continue
		}

		title := processor.CleanText(heading.Text())
		if title == "" {
			skipped++
			continue
		}

		label := NoDateLabel
		if x.Selectors.Date != "" {
			if dateEl, ok := el.First(x.Selectors.Date); ok {
				label = processor.CleanText(dateEl.Text())
			}
		}

		records = append(records, ArticleRecord{
			Title:          title,
			Link:           href,
			PublishedLabel: label,
		})
	}

	return records, skipped
}

// Extract 只返回文章记录
func (x *Extractor) Extract(doc Document) []ArticleRecord {
	records, _ := x.Scan(doc)
	return records
}

// ExtractMarkup 解析原始 HTML 后抽取，整页无法解析时返回 *ParseError
func (x *Extractor) ExtractMarkup(raw string) ([]ArticleRecord, error) {
	doc, err := ParseMarkup(raw)
	if err != nil {
		return nil, err
	}
	return x.Extract(doc), nil
}
