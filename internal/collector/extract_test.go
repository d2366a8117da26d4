package collector

import (
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingFixture = `<html><body>
<article>
  <a href="https://www.cnbcindonesia.com/market/1"><h2> Harga Emas Naik </h2></a>
  <span class="date">1 jam yang lalu</span>
</article>
<article>
  <h2>Tanpa tautan</h2>
</article>
<article>
  <a href="/news/2">Tanpa judul</a>
</article>
<article>
  <a href="/news/3"><h2>IHSG&#x1F;Melemah</h2></a>
</article>
<article>
  <a name="no-href"><h2>Tautan tanpa href</h2></a>
</article>
<article>
  <a href="/news/4"><h2> &#x07; </h2></a>
</article>
</body></html>`

func TestExtractorScanSkipsMalformedContainers(t *testing.T) {
	doc, err := ParseMarkup(listingFixture)
	require.NoError(t, err)

	records, skipped := NewExtractor(DefaultSelectors()).Scan(doc)

	require.Len(t, records, 2)
	assert.Equal(t, 4, skipped)

	assert.Equal(t, ArticleRecord{
		Title:          "Harga Emas Naik",
		Link:           "https://www.cnbcindonesia.com/market/1",
		PublishedLabel: "1 jam yang lalu",
	}, records[0])

	assert.Equal(t, "IHSGMelemah", records[1].Title)
	assert.Equal(t, "/news/3", records[1].Link, "relative links are kept verbatim")
	assert.Equal(t, NoDateLabel, records[1].PublishedLabel)
}

func TestExtractorKeepsDocumentOrderWithoutDedupe(t *testing.T) {
	markup := `<article><a href="/a"><h2>Sama</h2></a></article>
<div><article><a href="/b"><h2>Kedua</h2></a></article></div>
<article><a href="/a"><h2>Sama</h2></a></article>`

	records, err := NewExtractor(DefaultSelectors()).ExtractMarkup(markup)
	require.NoError(t, err)

	titles := make([]string, 0, len(records))
	for _, r := range records {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"Sama", "Kedua", "Sama"}, titles)
}

func TestExtractorCustomSelectors(t *testing.T) {
	markup := `<div class="item"><h3>Rupiah Menguat</h3><a class="go" href="/r"></a><time>Senin</time></div>`
	x := NewExtractor(Selectors{Article: "div.item", Heading: "h3", Link: "a.go", Date: "time"})

	records, err := x.ExtractMarkup(markup)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ArticleRecord{Title: "Rupiah Menguat", Link: "/r", PublishedLabel: "Senin"}, records[0])
}

func TestExtractorDateLabelIsSanitized(t *testing.T) {
	markup := "<article><a href=\"/x\"><h2>Judul</h2></a><span class=\"date\">\n\t01/03/2025 \x0210:00 </span></article>"

	records, err := NewExtractor(DefaultSelectors()).ExtractMarkup(markup)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "01/03/2025 10:00", records[0].PublishedLabel)
}

func TestParseHTMLReaderFailureIsParseError(t *testing.T) {
	_, err := ParseHTML(iotest.ErrReader(errors.New("connection reset")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "connection reset")
}

// 以下用内存中的假文档验证抽取器只依赖 Document/Element 接口

type fakeElement struct {
	children map[string]*fakeElement
	attrs    map[string]string
	text     string
}

func (e *fakeElement) First(selector string) (Element, bool) {
	c, ok := e.children[selector]
	if !ok {
		return nil, false
	}
	return c, true
}

func (e *fakeElement) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) Text() string { return e.text }

type fakeDocument map[string][]Element

func (d fakeDocument) FindAll(selector string) []Element { return d[selector] }

func TestExtractorAgainstInMemoryDocument(t *testing.T) {
	valid := func(title, href string) *fakeElement {
		return &fakeElement{children: map[string]*fakeElement{
			"h2": {text: title},
			"a":  {attrs: map[string]string{"href": href}},
		}}
	}
	noHeading := &fakeElement{children: map[string]*fakeElement{
		"a": {attrs: map[string]string{"href": "/x"}},
	}}
	noAnchor := &fakeElement{children: map[string]*fakeElement{
		"h2": {text: "Tanpa tautan"},
	}}

	doc := fakeDocument{"article": {
		noHeading,
		valid("Pertama", "/1"),
		noAnchor,
		valid("Kedua\x7f", "/2"),
		noHeading,
	}}

	records, skipped := NewExtractor(DefaultSelectors()).Scan(doc)
	require.Len(t, records, 2)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, "Pertama", records[0].Title)
	assert.Equal(t, "Kedua", records[1].Title)
	assert.Equal(t, NoDateLabel, records[1].PublishedLabel)
}
