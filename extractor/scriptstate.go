package extractor

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricetrack/models"
)

// scriptStateTable describes where a variant's inline runtime-state JSON
// lives and how to read product fields out of it.
type scriptStateTable struct {
	// scriptSelector narrows which script elements to inspect.
	scriptSelector string
	// marker is the token that precedes the JSON object literal.
	marker string
	// path walks from the JSON root down to the object holding the fields.
	path []string

	titleKey       string
	priceKey       string
	imageKey       string
	imageIsList    bool
	descriptionKey string

	// domFill optionally supplies display fields from the DOM when the
	// script only carries the price.
	domFill *fieldSelectors
}

// scriptStateStrategy locates an inline script containing the marker token,
// extracts the JSON object literal that follows it, and reads product
// fields from the configured nested path. The price field may itself be an
// object exposing value/text; the numeric value is preferred.
func scriptStateStrategy(name string, table scriptStateTable) strategy {
	return strategy{
		name: name,
		run: func(page *Page, doc *goquery.Document) (*models.ProductSnapshot, error) {
			var snap *models.ProductSnapshot

			doc.Find(table.scriptSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				text := s.Text()
				if !strings.Contains(text, table.marker) {
					return true
				}

				literal, ok := jsonAfterMarker(text, table.marker)
				if !ok {
					return true
				}

				var root map[string]interface{}
				if err := json.Unmarshal([]byte(literal), &root); err != nil {
					return true
				}

				fields := walkPath(root, table.path)
				if fields == nil {
					return true
				}

				candidate := &models.ProductSnapshot{
					Price: resolvePriceField(fields[table.priceKey]),
				}
				if table.titleKey != "" {
					candidate.Title = stringField(fields, table.titleKey)
				}
				if table.imageKey != "" {
					if table.imageIsList {
						candidate.ImageURL = stringField(fields, table.imageKey)
					} else if s, ok := fields[table.imageKey].(string); ok {
						candidate.ImageURL = s
					}
				}
				if table.descriptionKey != "" {
					candidate.Description = stringField(fields, table.descriptionKey)
				}

				if snap == nil {
					snap = candidate
				}
				if candidate.Price > 0 {
					snap = candidate
					return false
				}
				return true
			})

			if snap != nil && snap.Price > 0 && table.domFill != nil {
				fillFromDOM(snap, doc, table.domFill)
			}
			return snap, nil
		},
	}
}

// fillFromDOM completes display fields from the selector table when the
// script state only carried a price.
func fillFromDOM(snap *models.ProductSnapshot, doc *goquery.Document, fields *fieldSelectors) {
	if snap.Title == "" {
		snap.Title = firstText(doc, fields.title)
	}
	if snap.ImageURL == "" {
		snap.ImageURL = firstAttr(doc, fields.image, fields.imageAttrs)
	}
	if snap.Description == "" {
		snap.Description = firstText(doc, fields.description)
	}
}

// jsonAfterMarker extracts the first balanced JSON object literal following
// the marker token. The scan is string-aware so braces inside quoted values
// do not unbalance it.
func jsonAfterMarker(text, marker string) (string, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return "", false
	}

	start := strings.IndexByte(text[idx+len(marker):], '{')
	if start < 0 {
		return "", false
	}
	start += idx + len(marker)

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// walkPath descends nested objects along the given keys, returning the root
// itself for an empty path. A missing or non-object step yields nil.
func walkPath(root map[string]interface{}, path []string) map[string]interface{} {
	current := root
	for _, key := range path {
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return nil
		}
		current = next
	}
	return current
}
