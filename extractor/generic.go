package extractor

import (
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/models"
)

// currencyPriceRe matches a currency-prefixed amount for the regional
// currency markers the tracker encounters most.
var currencyPriceRe = regexp.MustCompile(`(?i)(?:[$₹£€¥]|Rs\.?|USD|INR)\s*([0-9,]+(?:\.[0-9]{1,2})?)`)

// genericTitleSelectors and friends are best-effort patterns for unknown
// storefronts: semantic elements first, then class-substring guesses.
var (
	genericTitleSelectors = []string{
		"h1",
		`h1[class*="title"]`,
		`div[class*="title"]`,
		`span[class*="title"]`,
	}
	genericPriceSelectors = []string{
		`span[class*="price"]`,
		`div[class*="price"]`,
		`p[class*="price"]`,
		`span[class*="amount"]`,
		`span[class*="current"]`,
	}
	genericImageSelectors = []string{
		`img[class*="product"]`,
		`img[class*="main"]`,
		`img[id*="product"]`,
		`img[id*="main"]`,
		`div[class*="product-image"] img`,
	}
	genericDescriptionSelectors = []string{
		`div[class*="description"]`,
		`div[id*="description"]`,
		`p[class*="description"]`,
	}
)

// newGenericExtractor builds the variant for unknown sites: JSON-LD
// structured data, then price-class guessing, then a currency scan over the
// whole document text, and finally product meta tags.
func newGenericExtractor(logger *log.Logger) SiteExtractor {
	return &siteVariant{
		store:  models.StoreGeneric,
		logger: logger,
		strategies: []strategy{
			structuredDataStrategy(),
			{name: "price-class-guess", run: genericDOM},
			{name: "currency-scan", run: genericCurrencyScan},
			{name: "meta-tags", run: genericMetaPrice},
		},
	}
}

// genericDOM gathers all four fields from common markup patterns. Price
// candidates are accepted when a currency-prefixed amount is present, or
// when the bare text parses directly.
func genericDOM(page *Page, doc *goquery.Document) (*models.ProductSnapshot, error) {
	snap := &models.ProductSnapshot{
		Title:       firstText(doc, genericTitleSelectors),
		ImageURL:    genericImage(doc),
		Description: genericDescription(doc),
	}

	for _, sel := range genericPriceSelectors {
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if text == "" {
				return true
			}
			if match := currencyPriceRe.FindStringSubmatch(text); match != nil {
				if price := NormalizePrice(match[1]); price > 0 {
					snap.Price = price
					return false
				}
			}
			if price := NormalizePrice(text); price > 0 {
				snap.Price = price
				return false
			}
			return true
		})
		if snap.Price > 0 {
			break
		}
	}

	return snap, nil
}

// genericCurrencyScan sweeps the rendered text of the whole document for
// currency-prefixed amounts, taking the first positive one.
func genericCurrencyScan(page *Page, doc *goquery.Document) (*models.ProductSnapshot, error) {
	snap := &models.ProductSnapshot{}
	for _, match := range currencyPriceRe.FindAllStringSubmatch(doc.Text(), -1) {
		if price := NormalizePrice(match[1]); price > 0 {
			snap.Price = price
			break
		}
	}
	return snap, nil
}

// genericMetaPrice reads the product price meta tags as a last resort.
func genericMetaPrice(page *Page, doc *goquery.Document) (*models.ProductSnapshot, error) {
	snap := &models.ProductSnapshot{}
	for _, sel := range []string{
		`meta[property="product:price:amount"]`,
		`meta[itemprop="price"]`,
	} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if price := NormalizePrice(content); price > 0 {
				snap.Price = price
				break
			}
		}
	}
	return snap, nil
}

func genericImage(doc *goquery.Document) string {
	if src := firstAttr(doc, genericImageSelectors, []string{"src", "data-src"}); src != "" {
		return src
	}
	for _, sel := range []string{`meta[property="og:image"]`, `meta[itemprop="image"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && content != "" {
			return content
		}
	}
	return ""
}

func genericDescription(doc *goquery.Document) string {
	if text := firstText(doc, genericDescriptionSelectors); text != "" {
		return text
	}
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && content != "" {
			return content
		}
	}
	return ""
}
