package extractor

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Page is a fetched product page. The body is never mutated after the fetch;
// the parsed document is built lazily and shared by every strategy that runs
// against this page.
type Page struct {
	URL        string
	StatusCode int
	Body       string

	once   sync.Once
	doc    *goquery.Document
	docErr error
}

// NewPage wraps a fetched response body for extraction.
func NewPage(url string, statusCode int, body string) *Page {
	return &Page{URL: url, StatusCode: statusCode, Body: body}
}

// Document parses the body once and returns the shared document.
func (p *Page) Document() (*goquery.Document, error) {
	p.once.Do(func() {
		p.doc, p.docErr = goquery.NewDocumentFromReader(strings.NewReader(p.Body))
	})
	return p.doc, p.docErr
}
