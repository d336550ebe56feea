package extractor

import (
	"log"

	"pricetrack/models"
)

// darazSelectors is the DOM fallback table for Daraz product pages. The
// color_orange price is the live price; pdp-price_type_deleted is the
// crossed-out list price and goes last.
var darazSelectors = fieldSelectors{
	title: []string{
		"h1.pdp-mod-product-badge-title",
		"span.pdp-title",
	},
	price: []string{
		`span[class*="color_orange"][class*="pdp-price"]`,
		"span.pdp-price_type_normal.pdp-price_color_orange",
		"span.pdp-price_type_normal",
		`span[class*="pdp-price_type_normal"]`,
		`span[class*="pdp-price"]`,
		`div[class*="pdp-price"]`,
		"span.price-val",
		"span.pdp-price_type_deleted",
	},
	image: []string{
		"img.pdp-mod-common-image",
		"img[data-src]",
	},
	imageAttrs: []string{"src", "data-src"},
	description: []string{
		"div.html-content",
		"div.pdp-product-detail",
	},
}

// newDarazExtractor builds the Daraz variant: the item-price script module
// first, then the app.run runtime state, then the selector cascade, and
// finally a scan of the price container for anything Rs-marked.
func newDarazExtractor(logger *log.Logger) SiteExtractor {
	return &siteVariant{
		store:  models.StoreDaraz,
		logger: logger,
		strategies: []strategy{
			scriptStateStrategy("item-price-module", scriptStateTable{
				scriptSelector: `script[data-module="item-price"]`,
				marker:         "data:",
				priceKey:       "price",
				domFill:        &darazSelectors,
			}),
			scriptStateStrategy("app-run", scriptStateTable{
				scriptSelector: `script[type="text/javascript"]`,
				marker:         "app.run(",
				path:           []string{"data", "root", "fields"},
				titleKey:       "title",
				priceKey:       "price",
				imageKey:       "images",
				imageIsList:    true,
				descriptionKey: "description",
			}),
			cascadeStrategy("selector-cascade", darazSelectors),
			containerScanStrategy("price-container", "div.pdp-product-price", []string{"Rs.", "₹"}),
		},
	}
}
