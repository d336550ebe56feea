package extractor

import (
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/models"
)

// amazonSelectors covers the alternate price blocks Amazon rotates through:
// our-price, deal price, the screen-reader a-offscreen span, and the sale
// price block.
var amazonSelectors = fieldSelectors{
	title: []string{"span#productTitle"},
	price: []string{
		"span#priceblock_ourprice",
		"span.priceblock_ourprice",
		"span#priceblock_dealprice",
		"span.priceblock_dealprice",
		"span.a-offscreen",
		"span#priceblock_saleprice",
	},
	image:       []string{"img#landingImage", "img#imgBlkFront"},
	imageAttrs:  []string{"src"},
	description: []string{"div#productDescription"},
}

// newAmazonExtractor builds the Amazon variant: the split whole/fraction
// price pair first, then the alternate price-block cascade.
func newAmazonExtractor(logger *log.Logger) SiteExtractor {
	return &siteVariant{
		store:  models.StoreAmazon,
		logger: logger,
		strategies: []strategy{
			{name: "whole-fraction", run: amazonWholeFraction},
			cascadeStrategy("selector-cascade", amazonSelectors),
		},
	}
}

// amazonWholeFraction joins Amazon's split price markup, where the integer
// part lives in a-price-whole and the cents in a-price-fraction. A missing
// fraction defaults to 00.
func amazonWholeFraction(page *Page, doc *goquery.Document) (*models.ProductSnapshot, error) {
	snap := &models.ProductSnapshot{
		Title:       firstText(doc, amazonSelectors.title),
		ImageURL:    firstAttr(doc, amazonSelectors.image, amazonSelectors.imageAttrs),
		Description: firstText(doc, amazonSelectors.description),
	}

	whole := strings.TrimSpace(doc.Find("span.a-price-whole").First().Text())
	if whole == "" {
		return snap, nil
	}
	whole = strings.ReplaceAll(whole, ",", "")

	fraction := strings.TrimSpace(doc.Find("span.a-price-fraction").First().Text())
	if fraction == "" {
		fraction = "00"
	}

	snap.Price = NormalizePrice(fmt.Sprintf("%s.%s", whole, fraction))
	return snap, nil
}
