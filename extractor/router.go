package extractor

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pricetrack/models"
)

// fetchTimeout bounds the whole fetch, including body read.
const fetchTimeout = 15 * time.Second

// browserHeaders mimics a desktop Chrome request so storefronts serve the
// regular product page. Accept-Encoding is left to the transport, which
// handles gzip transparently.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Accept-Language":           "en-US,en;q=0.9",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Connection":                "keep-alive",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Upgrade-Insecure-Requests": "1",
}

// Router fetches product pages and dispatches them to the matching store
// variant. It is stateless per call and safe for concurrent use: the
// registry is immutable after construction and the http.Client is shared.
type Router struct {
	client   *http.Client
	logger   *log.Logger
	registry map[models.Store]SiteExtractor
}

// NewRouter builds the store registry. New stores register here without the
// dispatch code changing. A nil logger falls back to the default logger.
func NewRouter(logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}

	r := &Router{
		client:   &http.Client{Timeout: fetchTimeout},
		logger:   logger,
		registry: make(map[models.Store]SiteExtractor),
	}

	for _, e := range []SiteExtractor{
		newDarazExtractor(logger),
		newAmazonExtractor(logger),
		newAliexpressExtractor(logger),
		newFlipkartExtractor(logger),
		newGenericExtractor(logger),
	} {
		r.registry[e.Store()] = e
	}

	return r
}

// SetHTTPClient replaces the fetch client. Call before first use.
func (r *Router) SetHTTPClient(client *http.Client) {
	r.client = client
}

// InferStore guesses the store from the URL host by substring match, in a
// fixed order. Anything unrecognized is generic.
func InferStore(rawURL string) models.Store {
	u, err := url.Parse(rawURL)
	if err != nil {
		return models.StoreGeneric
	}

	host := u.Hostname()
	for _, store := range models.KnownStores {
		if strings.Contains(host, string(store)) {
			return store
		}
	}
	return models.StoreGeneric
}

// ScrapeProduct fetches the page and runs the matching extractor. A nil
// snapshot with an error is a fatal outcome: network failure, non-2xx
// status, or a page too broken to parse. A snapshot with price 0 means the
// page was readable but no price could be found anywhere, fallback sweep
// included. Failures are not retried here; the scheduler owns retry policy.
func (r *Router) ScrapeProduct(rawURL string, store models.Store) (*models.ProductSnapshot, error) {
	if store == "" {
		store = InferStore(rawURL)
	}
	siteExtractor, ok := r.registry[store]
	if !ok {
		siteExtractor = r.registry[models.StoreGeneric]
	}

	r.logger.Printf("scraping %s product: %s", store, rawURL)

	page, err := r.fetch(rawURL)
	if err != nil {
		return nil, err
	}

	snapshot, err := siteExtractor.Extract(page)
	if err != nil {
		return nil, fmt.Errorf("%s extraction failed: %v", store, err)
	}

	if snapshot.Price == 0 {
		r.logger.Printf("%s extractor returned price 0, trying fallback sweep", store)
		if candidates := FindCandidatePrices(page.Body); len(candidates) > 0 {
			snapshot.Price = SelectBestPrice(candidates)
			r.logger.Printf("fallback sweep selected price: %.2f", snapshot.Price)
		}
	}

	return snapshot, nil
}

// fetch performs one GET with browser-like headers and returns the full
// body. The response body is always closed before returning.
func (r *Router) fetch(rawURL string) (*Page, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %v", rawURL, err)
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed for %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %v", rawURL, err)
	}

	return NewPage(rawURL, resp.StatusCode, string(body)), nil
}
