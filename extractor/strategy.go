package extractor

import (
	"fmt"
	"log"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/models"
)

// SiteExtractor extracts a product snapshot from a fetched page. A nil
// snapshot with an error is reserved for fatal parse failures; a snapshot
// with price 0 means the page was readable but no price was found.
type SiteExtractor interface {
	Store() models.Store
	Extract(page *Page) (*models.ProductSnapshot, error)
}

// strategy is one self-contained extraction technique. Strategies run in a
// fixed order; the first one producing a positive price wins.
type strategy struct {
	name string
	run  func(page *Page, doc *goquery.Document) (*models.ProductSnapshot, error)
}

// siteVariant is the shared state machine behind every store variant.
// Variants differ only in their strategy tables; the control flow is
// identical across stores.
type siteVariant struct {
	store      models.Store
	logger     *log.Logger
	strategies []strategy
}

func (v *siteVariant) Store() models.Store {
	return v.store
}

// Extract runs the variant's strategies in order. The first strategy that
// yields a positive price short-circuits; otherwise the best partial
// snapshot is returned, with later strategies filling fields earlier ones
// missed. Only an unparseable document is fatal.
func (v *siteVariant) Extract(page *Page) (*models.ProductSnapshot, error) {
	doc, err := page.Document()
	if err != nil {
		return nil, fmt.Errorf("%s: malformed page: %v", v.store, err)
	}

	best := &models.ProductSnapshot{}
	for _, s := range v.strategies {
		snap, err := v.runOne(s, page, doc)
		if err != nil {
			v.logger.Printf("%s: strategy %s failed: %v", v.store, s.name, err)
			continue
		}
		if snap == nil {
			continue
		}

		mergeSnapshot(best, snap)
		if snap.Price > 0 {
			best.Price = snap.Price
			return best, nil
		}
	}

	return best, nil
}

// runOne executes a single strategy. Pages are arbitrary, often hostile
// markup; a panicking strategy counts as a failed strategy, not a crash.
func (v *siteVariant) runOne(s strategy, page *Page, doc *goquery.Document) (snap *models.ProductSnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.run(page, doc)
}

// mergeSnapshot fills empty fields of dst from src without overwriting
// anything already found.
func mergeSnapshot(dst, src *models.ProductSnapshot) {
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.Price == 0 {
		dst.Price = src.Price
	}
	if dst.ImageURL == "" {
		dst.ImageURL = src.ImageURL
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
}

// resolvePriceField resolves the loosely typed price fields seen in embedded
// runtime state: a scalar, an object exposing value/text, or a list. The
// numeric value wins over display text, and a list resolves to its first
// element.
func resolvePriceField(v interface{}) float64 {
	switch pv := v.(type) {
	case map[string]interface{}:
		if val, ok := pv["value"]; ok {
			if price := NormalizeValue(val); price > 0 {
				return price
			}
		}
		if txt, ok := pv["text"]; ok {
			return NormalizeValue(txt)
		}
		return 0.0
	case []interface{}:
		if len(pv) == 0 {
			return 0.0
		}
		return resolvePriceField(pv[0])
	default:
		return NormalizeValue(v)
	}
}
