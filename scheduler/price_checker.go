package scheduler

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"pricetrack/extractor"
	"pricetrack/models"
	"pricetrack/notifier"
	"pricetrack/repository"

	"github.com/robfig/cron/v3"
)

// maxConcurrentChecks bounds how many product pages are fetched at once
// during a scheduled sweep.
const maxConcurrentChecks = 5

// staleAfter is how long an unchecked product survives before the purge job
// removes it.
const staleAfter = 30 * 24 * time.Hour

// PriceChecker drives the periodic update, digest and cleanup jobs
type PriceChecker struct {
	cron     *cron.Cron
	router   *extractor.Router
	products *repository.ProductRepository
	prefs    *repository.PreferenceRepository
	notifier *notifier.Notifier
}

func NewPriceChecker(router *extractor.Router, products *repository.ProductRepository, prefs *repository.PreferenceRepository, n *notifier.Notifier) *PriceChecker {
	return &PriceChecker{
		cron:     cron.New(cron.WithSeconds()),
		router:   router,
		products: products,
		prefs:    prefs,
		notifier: n,
	}
}

// Start schedules the recurring jobs: price updates every 12 hours, digests
// each morning, and a daily purge of stale products.
func (pc *PriceChecker) Start() {
	jobs := []struct {
		spec string
		name string
		fn   func()
	}{
		{"0 0 */12 * * *", "price update", pc.UpdateAllProducts},
		{"0 0 8 * * *", "daily digest", pc.sendDailyDigests},
		{"0 0 8 * * 1", "weekly digest", pc.sendWeeklyDigests},
		{"0 30 3 * * *", "stale purge", pc.purgeStaleProducts},
	}

	for _, job := range jobs {
		if _, err := pc.cron.AddFunc(job.spec, job.fn); err != nil {
			log.Printf("Failed to schedule %s job: %v", job.name, err)
			return
		}
	}

	// Also run immediately on startup
	go pc.UpdateAllProducts()

	pc.cron.Start()
	log.Println("Price checker scheduled to run every 12 hours")
}

// Stop stops the scheduled jobs
func (pc *PriceChecker) Stop() {
	if pc.cron != nil {
		pc.cron.Stop()
	}
}

// UpdateAllProducts re-scrapes every tracked product through a bounded
// worker pool. Per-product failures are logged and never stop the sweep.
func (pc *PriceChecker) UpdateAllProducts() {
	log.Println("Starting scheduled price check for all tracked products")

	products, err := pc.products.GetProducts("")
	if err != nil {
		log.Printf("Failed to get tracked products: %v", err)
		return
	}

	if len(products) == 0 {
		log.Println("No products to check")
		return
	}

	log.Printf("Checking prices for %d products", len(products))

	var updated, drops int64
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentChecks)

	for _, product := range products {
		wg.Add(1)
		sem <- struct{}{}
		go func(product models.Product) {
			defer wg.Done()
			defer func() { <-sem }()

			if dropped, ok := pc.checkProduct(&product); ok {
				atomic.AddInt64(&updated, 1)
				if dropped {
					atomic.AddInt64(&drops, 1)
				}
			}
		}(product)
	}
	wg.Wait()

	log.Printf("Updated %d products, found %d price drops", updated, drops)
}

// checkProduct refreshes one product and fires an instant alert when the
// new price qualifies. Returns whether the price dropped and whether the
// update succeeded.
func (pc *PriceChecker) checkProduct(product *models.Product) (dropped, ok bool) {
	snapshot, err := pc.router.ScrapeProduct(product.URL, product.Store)
	if err != nil {
		log.Printf("Failed to scrape %s: %v", product.URL, err)
		if err := pc.products.MarkOutOfStock(product.ID); err != nil {
			log.Printf("Failed to mark product %d out of stock: %v", product.ID, err)
		}
		return false, false
	}

	oldPrice := product.CurrentPrice

	updated, err := pc.products.UpdateProductPrice(product.ID, snapshot)
	if err != nil {
		log.Printf("Failed to update product %d: %v", product.ID, err)
		return false, false
	}

	if snapshot.Price == 0 {
		log.Printf("No price found for %s, marked out of stock", product.URL)
		return false, true
	}

	if snapshot.Price < oldPrice {
		dropped = true
		changePercent := (oldPrice - snapshot.Price) / oldPrice * 100
		log.Printf("📉 Price DROPPED for %s: %.2f → %.2f (-%.1f%%)",
			updated.Title, oldPrice, snapshot.Price, changePercent)

		pc.maybeSendInstantAlert(product, oldPrice, snapshot.Price)
	} else if snapshot.Price > oldPrice {
		log.Printf("📈 Price increased for %s: %.2f → %.2f", updated.Title, oldPrice, snapshot.Price)
	}

	return dropped, true
}

// maybeSendInstantAlert emails the owner when the drop qualifies and their
// preferences allow instant notifications. Email failures only get logged.
func (pc *PriceChecker) maybeSendInstantAlert(product *models.Product, oldPrice, newPrice float64) {
	if product.UserEmail == "" {
		return
	}

	pref, err := pc.prefs.GetOrCreate(product.UserEmail)
	if err != nil {
		log.Printf("Failed to load preferences for %s: %v", product.UserEmail, err)
		return
	}

	if !notifier.ShouldAlert(product, pref, newPrice) {
		return
	}

	log.Printf("🚨 ALERT TRIGGERED for %s: price dropped to %.2f", product.Title, newPrice)
	if err := pc.notifier.SendPriceDropAlert(product.UserEmail, product, oldPrice, newPrice); err != nil {
		log.Printf("Failed to send alert email: %v", err)
	}
}

// sendDailyDigests emails each daily-frequency user their price drops from
// the last 24 hours.
func (pc *PriceChecker) sendDailyDigests() {
	pc.sendDigests(models.FrequencyDaily, 24*time.Hour)
}

// sendWeeklyDigests emails each weekly-frequency user their price drops
// from the last 7 days.
func (pc *PriceChecker) sendWeeklyDigests() {
	pc.sendDigests(models.FrequencyWeekly, 7*24*time.Hour)
}

func (pc *PriceChecker) sendDigests(frequency string, window time.Duration) {
	prefs, err := pc.prefs.GetByFrequency(frequency)
	if err != nil {
		log.Printf("Failed to get %s digest users: %v", frequency, err)
		return
	}

	since := time.Now().Add(-window)
	for _, pref := range prefs {
		products, err := pc.products.GetProductsBelowHighest(pref.UserEmail, since)
		if err != nil {
			log.Printf("Failed to collect digest products for %s: %v", pref.UserEmail, err)
			continue
		}
		if len(products) == 0 {
			continue
		}

		if err := pc.notifier.SendDigest(pref.UserEmail, frequency, products); err != nil {
			log.Printf("Failed to send %s digest to %s: %v", frequency, pref.UserEmail, err)
			continue
		}
		log.Printf("Sent %s digest to %s (%d products)", frequency, pref.UserEmail, len(products))
	}
}

// purgeStaleProducts removes products that have not been checked in 30 days
func (pc *PriceChecker) purgeStaleProducts() {
	count, err := pc.products.PurgeStale(time.Now().Add(-staleAfter))
	if err != nil {
		log.Printf("Failed to purge stale products: %v", err)
		return
	}
	if count > 0 {
		log.Printf("🧹 Deleted %d stale products", count)
	}
}
