package extractor

import (
	"log"

	"pricetrack/models"
)

// flipkartSelectors uses Flipkart's obfuscated class names; the exact pair
// match comes first, then a class-substring fallback for when the second
// class rotates.
var flipkartSelectors = fieldSelectors{
	title: []string{"span.B_NuCI"},
	price: []string{
		"div._30jeq3._16Jk6d",
		`div[class*="_30jeq3"]`,
	},
	image:       []string{"img._396cs4"},
	imageAttrs:  []string{"src"},
	description: []string{"div._1mXcCf.RmoJUa"},
}

// newFlipkartExtractor builds the Flipkart variant, a pure selector cascade.
func newFlipkartExtractor(logger *log.Logger) SiteExtractor {
	return &siteVariant{
		store:  models.StoreFlipkart,
		logger: logger,
		strategies: []strategy{
			cascadeStrategy("selector-cascade", flipkartSelectors),
		},
	}
}
