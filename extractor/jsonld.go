package extractor

import (
	"encoding/json"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/models"
)

// structuredDataStrategy searches embedded JSON-LD blocks for an object
// exposing an offers or price field and accepts the first block whose
// declared price normalizes to a positive value. Title, image and
// description come from sibling fields when present.
func structuredDataStrategy() strategy {
	return strategy{
		name: "structured-data",
		run: func(page *Page, doc *goquery.Document) (*models.ProductSnapshot, error) {
			var best *models.ProductSnapshot

			doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				var data interface{}
				if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
					return true
				}

				for _, obj := range ldObjects(data) {
					_, hasOffers := obj["offers"]
					_, hasPrice := obj["price"]
					if !hasOffers && !hasPrice {
						continue
					}

					candidate := &models.ProductSnapshot{
						Title:       stringField(obj, "name"),
						Price:       resolveOfferPrice(obj),
						ImageURL:    stringField(obj, "image"),
						Description: stringField(obj, "description"),
					}
					if best == nil {
						best = candidate
					}
					if candidate.Price > 0 {
						best = candidate
						return false
					}
				}
				return true
			})

			return best, nil
		},
	}
}

// ldObjects flattens a decoded JSON-LD payload into its object members: a
// bare object, or each object of a top-level array.
func ldObjects(data interface{}) []map[string]interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{v}
	case []interface{}:
		var objs []map[string]interface{}
		for _, item := range v {
			if obj, ok := item.(map[string]interface{}); ok {
				objs = append(objs, obj)
			}
		}
		return objs
	}
	return nil
}

// resolveOfferPrice reads a price out of a JSON-LD object: an offers object
// with a price field, an offers list whose first element carries the price,
// or a direct price field on the object itself.
func resolveOfferPrice(obj map[string]interface{}) float64 {
	switch offers := obj["offers"].(type) {
	case map[string]interface{}:
		return NormalizeValue(offers["price"])
	case []interface{}:
		if len(offers) == 0 {
			return 0.0
		}
		if first, ok := offers[0].(map[string]interface{}); ok {
			return NormalizeValue(first["price"])
		}
		return 0.0
	}
	return NormalizeValue(obj["price"])
}

// stringField reads a string member, accepting the first element when the
// field is a list (JSON-LD images frequently are).
func stringField(obj map[string]interface{}, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
