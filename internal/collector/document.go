package collector

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document 是抽取器依赖的最小 HTML 能力：按选择器找出全部元素
type Document interface {
	FindAll(selector string) []Element
}

// Element 单个元素：找第一个匹配的后代、读属性、取文本
type Element interface {
	First(selector string) (Element, bool)
	Attr(name string) (string, bool)
	Text() string
}

// ParseHTML 用 goquery 解析整页 HTML，失败时返回 *ParseError
func ParseHTML(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return goqueryDocument{doc: doc}, nil
}

// ParseMarkup 是 ParseHTML 的字符串版本
func ParseMarkup(raw string) (Document, error) {
	return ParseHTML(strings.NewReader(raw))
}

type goqueryDocument struct {
	doc *goquery.Document
}

func (d goqueryDocument) FindAll(selector string) []Element {
	sel := d.doc.Find(selector)
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, goqueryElement{sel: s})
	})
	return out
}

type goqueryElement struct {
	sel *goquery.Selection
}

func (e goqueryElement) First(selector string) (Element, bool) {
	s := e.sel.Find(selector).First()
	if s.Length() == 0 {
		return nil, false
	}
	return goqueryElement{sel: s}, true
}

func (e goqueryElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e goqueryElement) Text() string {
	return e.sel.Text()
}
