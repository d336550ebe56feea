package extractor

import (
	"log"

	"pricetrack/models"
)

var aliexpressSelectors = fieldSelectors{
	title: []string{
		"h1.product-title-text",
		"h1",
	},
	price: []string{
		"span.product-price-value",
		`span[class*="price"]`,
		`div[class*="price"]`,
	},
	image:       []string{"img.magnifier-image"},
	imageAttrs:  []string{"src"},
	description: []string{"div.product-description"},
}

// newAliexpressExtractor builds the AliExpress variant: JSON-LD structured
// data first, then the window.runParams runtime state (which carries a
// display-formatted price), then the selector cascade.
func newAliexpressExtractor(logger *log.Logger) SiteExtractor {
	return &siteVariant{
		store:  models.StoreAliexpress,
		logger: logger,
		strategies: []strategy{
			structuredDataStrategy(),
			scriptStateStrategy("run-params", scriptStateTable{
				scriptSelector: `script[type="text/javascript"]`,
				marker:         "window.runParams",
				path:           []string{"data", "root", "fields"},
				titleKey:       "title",
				priceKey:       "formatedPrice",
				imageKey:       "imageUrl",
				descriptionKey: "description",
			}),
			cascadeStrategy("selector-cascade", aliexpressSelectors),
		},
	}
}
