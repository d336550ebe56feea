package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/models"
)

// fieldSelectors is a prioritized selector table for one store: id first,
// then exact class, then class-substring matches.
type fieldSelectors struct {
	title       []string
	price       []string
	image       []string
	imageAttrs  []string
	description []string
}

// cascadeStrategy builds a DOM selector-cascade strategy from a field table.
// For the price, the cascade stops at the first element whose text
// normalizes to a positive value; for the other fields, at the first
// non-empty candidate. Missing fields stay empty and never abort the rest.
func cascadeStrategy(name string, fields fieldSelectors) strategy {
	return strategy{
		name: name,
		run: func(page *Page, doc *goquery.Document) (*models.ProductSnapshot, error) {
			return &models.ProductSnapshot{
				Title:       firstText(doc, fields.title),
				Price:       cascadePrice(doc, fields.price),
				ImageURL:    firstAttr(doc, fields.image, fields.imageAttrs),
				Description: firstText(doc, fields.description),
			}, nil
		},
	}
}

// containerScanStrategy is the price-only last resort within a variant: scan
// a known price container's children for any text carrying a currency
// marker and accept the first positive value.
func containerScanStrategy(name, containerSelector string, currencyMarkers []string) strategy {
	return strategy{
		name: name,
		run: func(page *Page, doc *goquery.Document) (*models.ProductSnapshot, error) {
			snap := &models.ProductSnapshot{}
			container := doc.Find(containerSelector).First()
			if container.Length() == 0 {
				return snap, nil
			}

			container.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				text := strings.TrimSpace(s.Text())
				if !containsAny(text, currencyMarkers) {
					return true
				}
				if price := NormalizePrice(text); price > 0 {
					snap.Price = price
					return false
				}
				return true
			})

			return snap, nil
		},
	}
}

// firstText returns the trimmed text of the first selector with a non-empty
// match.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// firstAttr returns the first non-empty attribute value across the selector
// and attribute cascades.
func firstAttr(doc *goquery.Document, selectors, attrs []string) string {
	if len(attrs) == 0 {
		attrs = []string{"src"}
	}
	for _, sel := range selectors {
		elem := doc.Find(sel).First()
		if elem.Length() == 0 {
			continue
		}
		for _, attr := range attrs {
			if val, ok := elem.Attr(attr); ok && val != "" {
				return val
			}
		}
	}
	return ""
}

// cascadePrice walks the price selectors and returns the first candidate
// whose cleaned text normalizes to a positive value.
func cascadePrice(doc *goquery.Document, selectors []string) float64 {
	price := 0.0
	for _, sel := range selectors {
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if p := NormalizePrice(strings.TrimSpace(s.Text())); p > 0 {
				price = p
				return false
			}
			return true
		})
		if price > 0 {
			return price
		}
	}
	return 0.0
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
