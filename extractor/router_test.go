package extractor

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetrack/models"
)

func TestInferStore(t *testing.T) {
	tests := []struct {
		url      string
		expected models.Store
	}{
		{"https://www.daraz.pk/products/wireless-mouse-i12345.html", models.StoreDaraz},
		{"https://daraz.com.bd/products/x", models.StoreDaraz},
		{"https://www.amazon.com/dp/B08N5WRWNW", models.StoreAmazon},
		{"https://www.amazon.co.uk/dp/B08N5WRWNW", models.StoreAmazon},
		{"https://www.aliexpress.com/item/100500.html", models.StoreAliexpress},
		{"https://www.flipkart.com/shoes/p/itm123", models.StoreFlipkart},
		{"https://shop.example.com/product/42", models.StoreGeneric},
		{"://not-a-url", models.StoreGeneric},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, InferStore(tt.url), "url %s", tt.url)
	}
}

func TestScrapeProductMetaTagPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="product:price:amount" content="1,299.50">
		</head><body><h1>Gaming Monitor</h1></body></html>`))
	}))
	defer server.Close()

	router := NewRouter(nil)
	snap, err := router.ScrapeProduct(server.URL, "")
	require.NoError(t, err)

	assert.Equal(t, 1299.50, snap.Price)
	assert.Equal(t, "Gaming Monitor", snap.Title)
}

func TestScrapeProductSendsBrowserHeaders(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><body><h1>Item</h1></body></html>`))
	}))
	defer server.Close()

	router := NewRouter(nil)
	_, err := router.ScrapeProduct(server.URL, models.StoreGeneric)
	require.NoError(t, err)

	assert.Contains(t, gotUA, "Mozilla/5.0")
}

func TestScrapeProductUnknownStoreFallsBackToGeneric(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Item</h1><span class="price">$5.00</span></body></html>`))
	}))
	defer server.Close()

	router := NewRouter(nil)
	snap, err := router.ScrapeProduct(server.URL, models.Store("ebay"))
	require.NoError(t, err)

	assert.Equal(t, 5.0, snap.Price)
}

func TestScrapeProductNon2xxIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	router := NewRouter(nil)
	snap, err := router.ScrapeProduct(server.URL, models.StoreGeneric)

	require.Error(t, err)
	assert.Nil(t, snap)
}

func TestScrapeProductTimeoutIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	router := NewRouter(nil)
	router.SetHTTPClient(&http.Client{Timeout: 50 * time.Millisecond})

	snap, err := router.ScrapeProduct(server.URL, models.StoreGeneric)

	require.Error(t, err)
	assert.Nil(t, snap)
}

func TestScrapeProductNoPriceIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Mystery Item</h1><p>Contact us.</p></body></html>`))
	}))
	defer server.Close()

	router := NewRouter(nil)
	snap, err := router.ScrapeProduct(server.URL, models.StoreGeneric)
	require.NoError(t, err)

	assert.Equal(t, 0.0, snap.Price)
	assert.Equal(t, "Mystery Item", snap.Title)
}

func TestScrapeProductFallbackSweepSelectsMedian(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h1>Obscure Widget</h1>
			<div data-price="500"></div>
			<div data-price="100"></div>
			<div data-price="9999"></div>
		</body></html>`))
	}))
	defer server.Close()

	router := NewRouter(nil)
	snap, err := router.ScrapeProduct(server.URL, models.StoreGeneric)
	require.NoError(t, err)

	assert.Equal(t, 500.0, snap.Price, "median of three sweep candidates")
}
