package extractor

import (
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetrack/models"
)

func extract(t *testing.T, e SiteExtractor, html string) *models.ProductSnapshot {
	t.Helper()
	snap, err := e.Extract(NewPage("http://example.com/p", 200, html))
	require.NoError(t, err)
	require.NotNil(t, snap)
	return snap
}

func TestDarazItemPriceScript(t *testing.T) {
	html := `<html><body>
		<span class="pdp-title">Wireless Mouse</span>
		<img class="pdp-mod-common-image" src="http://img.daraz/mouse.jpg">
		<script data-module="item-price">
			var module = { data: {"price": {"value": 1850, "text": "Rs. 1,850"}} };
		</script>
	</body></html>`

	got := extract(t, newDarazExtractor(log.Default()), html)

	assert.Equal(t, 1850.0, got.Price)
	assert.Equal(t, "Wireless Mouse", got.Title, "display fields come from the DOM")
	assert.Equal(t, "http://img.daraz/mouse.jpg", got.ImageURL)
}

func TestDarazAppRunState(t *testing.T) {
	html := `<html><body>
		<script type="text/javascript">
			app.run({"data": {"root": {"fields": {
				"title": "USB Hub",
				"price": {"value": 999, "text": "Rs. 999"},
				"images": ["http://img.daraz/hub.jpg", "http://img.daraz/hub2.jpg"],
				"description": "4-port hub"
			}}}});
		</script>
	</body></html>`

	got := extract(t, newDarazExtractor(log.Default()), html)

	assert.Equal(t, 999.0, got.Price)
	assert.Equal(t, "USB Hub", got.Title)
	assert.Equal(t, "http://img.daraz/hub.jpg", got.ImageURL, "first image of the list")
	assert.Equal(t, "4-port hub", got.Description)
}

func TestDarazSelectorCascadePrefersLivePrice(t *testing.T) {
	html := `<html><body>
		<h1 class="pdp-mod-product-badge-title">Keyboard</h1>
		<span class="pdp-price pdp-price_type_normal pdp-price_color_orange">Rs. 2,099</span>
		<span class="pdp-price pdp-price_type_deleted">Rs. 3,000</span>
	</body></html>`

	got := extract(t, newDarazExtractor(log.Default()), html)

	assert.Equal(t, 2099.0, got.Price, "crossed-out list price must not win")
	assert.Equal(t, "Keyboard", got.Title)
}

func TestContainerScanStrategy(t *testing.T) {
	html := `<html><body>
		<div class="pdp-product-price">
			<span>Installment available</span>
			<span>Rs. 750</span>
		</div>
	</body></html>`

	page := NewPage("http://example.com", 200, html)
	doc, err := page.Document()
	require.NoError(t, err)

	s := containerScanStrategy("price-container", "div.pdp-product-price", []string{"Rs.", "₹"})
	snap, err := s.run(page, doc)
	require.NoError(t, err)

	assert.Equal(t, 750.0, snap.Price, "only currency-marked spans count")
}

func TestAmazonWholeFractionPrice(t *testing.T) {
	html := `<html><body>
		<span id="productTitle"> Echo Dot </span>
		<span class="a-price"><span class="a-price-whole">1,234</span><span class="a-price-fraction">56</span></span>
		<img id="landingImage" src="http://img.amazon/dot.jpg">
	</body></html>`

	got := extract(t, newAmazonExtractor(log.Default()), html)

	assert.Equal(t, 1234.56, got.Price)
	assert.Equal(t, "Echo Dot", got.Title)
	assert.Equal(t, "http://img.amazon/dot.jpg", got.ImageURL)
}

func TestAmazonWholeWithoutFraction(t *testing.T) {
	html := `<html><body><span class="a-price-whole">499</span></body></html>`

	got := extract(t, newAmazonExtractor(log.Default()), html)
	assert.Equal(t, 499.0, got.Price, "missing fraction defaults to .00")
}

func TestAmazonPriceBlockFallback(t *testing.T) {
	html := `<html><body>
		<span id="productTitle">Kindle</span>
		<span id="priceblock_ourprice">$89.99</span>
	</body></html>`

	got := extract(t, newAmazonExtractor(log.Default()), html)

	assert.Equal(t, 89.99, got.Price)
	assert.Equal(t, "Kindle", got.Title)
}

func TestFlipkartSelectorCascade(t *testing.T) {
	html := `<html><body>
		<span class="B_NuCI">Running Shoes</span>
		<div class="_30jeq3 _16Jk6d">₹1,499</div>
		<img class="_396cs4" src="http://img.flipkart/shoes.jpg">
		<div class="_1mXcCf RmoJUa">Lightweight trainers</div>
	</body></html>`

	got := extract(t, newFlipkartExtractor(log.Default()), html)

	assert.Equal(t, 1499.0, got.Price)
	assert.Equal(t, "Running Shoes", got.Title)
	assert.Equal(t, "http://img.flipkart/shoes.jpg", got.ImageURL)
	assert.Equal(t, "Lightweight trainers", got.Description)
}

func TestAliexpressStructuredData(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">
		{"@type": "Product", "name": "Phone Case", "image": ["http://img.ali/case.jpg"],
		 "description": "Silicone case",
		 "offers": {"@type": "Offer", "price": "25.99", "priceCurrency": "USD"}}
		</script>
	</head><body></body></html>`

	got := extract(t, newAliexpressExtractor(log.Default()), html)

	assert.Equal(t, 25.99, got.Price)
	assert.Equal(t, "Phone Case", got.Title)
	assert.Equal(t, "http://img.ali/case.jpg", got.ImageURL)
	assert.Equal(t, "Silicone case", got.Description)
}

func TestAliexpressRunParamsState(t *testing.T) {
	html := `<html><body>
		<script type="text/javascript">
			window.runParams = {"data": {"root": {"fields": {
				"title": "Bluetooth Earbuds",
				"formatedPrice": "US $12.34",
				"imageUrl": "http://img.ali/earbuds.jpg"
			}}}};
		</script>
	</body></html>`

	got := extract(t, newAliexpressExtractor(log.Default()), html)

	assert.Equal(t, 12.34, got.Price, "formatted display price is normalized")
	assert.Equal(t, "Bluetooth Earbuds", got.Title)
	assert.Equal(t, "http://img.ali/earbuds.jpg", got.ImageURL)
}

func TestGenericPriceClassGuess(t *testing.T) {
	html := `<html><body>
		<h1>Coffee Grinder</h1>
		<span class="product-price">$49.99</span>
		<img class="product-photo" src="http://shop/grinder.jpg">
		<div class="description">Burr grinder</div>
	</body></html>`

	got := extract(t, newGenericExtractor(log.Default()), html)

	assert.Equal(t, 49.99, got.Price)
	assert.Equal(t, "Coffee Grinder", got.Title)
	assert.Equal(t, "http://shop/grinder.jpg", got.ImageURL)
	assert.Equal(t, "Burr grinder", got.Description)
}

func TestGenericCurrencyScan(t *testing.T) {
	html := `<html><body>
		<h1>Desk Lamp</h1>
		<p>Limited offer, only $19.99 this week.</p>
	</body></html>`

	got := extract(t, newGenericExtractor(log.Default()), html)
	assert.Equal(t, 19.99, got.Price)
}

func TestGenericMetaTags(t *testing.T) {
	html := `<html><head>
		<meta property="product:price:amount" content="1,299.50">
		<meta property="og:image" content="http://shop/item.jpg">
		<meta property="og:description" content="Great item">
	</head><body><h1>Monitor</h1></body></html>`

	got := extract(t, newGenericExtractor(log.Default()), html)

	assert.Equal(t, 1299.50, got.Price)
	assert.Equal(t, "Monitor", got.Title)
	assert.Equal(t, "http://shop/item.jpg", got.ImageURL)
	assert.Equal(t, "Great item", got.Description)
}

func TestGenericNoPriceAnywhere(t *testing.T) {
	html := `<html><body><h1>Mystery Item</h1><p>Contact us for pricing.</p></body></html>`

	got := extract(t, newGenericExtractor(log.Default()), html)

	assert.Equal(t, 0.0, got.Price, "a readable page without a price is not an error")
	assert.Equal(t, "Mystery Item", got.Title)
}
