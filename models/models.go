package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Store identifies which extraction variant handles a product page.
type Store string

const (
	StoreDaraz      Store = "daraz"
	StoreAmazon     Store = "amazon"
	StoreAliexpress Store = "aliexpress"
	StoreFlipkart   Store = "flipkart"
	StoreGeneric    Store = "generic"
)

// KnownStores lists the store-specific variants in inference order.
// Generic is the default when no host fragment matches.
var KnownStores = []Store{StoreDaraz, StoreAmazon, StoreAliexpress, StoreFlipkart}

// IsValid reports whether s is one of the enumerated store identifiers.
func (s Store) IsValid() bool {
	switch s {
	case StoreDaraz, StoreAmazon, StoreAliexpress, StoreFlipkart, StoreGeneric:
		return true
	}
	return false
}

// ProductSnapshot is the result of one extraction pass over a product page.
// Price 0 means no price could be found; the tracker treats that as out of
// stock. A genuinely free item is indistinguishable from a failed extraction
// here, which is the behavior consumers already depend on.
type ProductSnapshot struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

// Product represents a tracked product belonging to one user
type Product struct {
	ID             int             `json:"id" db:"id"`
	URL            string          `json:"url" db:"url"`
	Title          string          `json:"title" db:"title"`
	Store          Store           `json:"store" db:"store"`
	CurrentPrice   float64         `json:"current_price" db:"current_price"`
	LowestPrice    float64         `json:"lowest_price" db:"lowest_price"`
	HighestPrice   float64         `json:"highest_price" db:"highest_price"`
	ImageURL       string          `json:"image_url" db:"image_url"`
	Description    string          `json:"description" db:"description"`
	InStock        bool            `json:"is_in_stock" db:"is_in_stock"`
	AlertThreshold sql.NullFloat64 `json:"alert_threshold" db:"alert_threshold"`
	UserEmail      string          `json:"user_email" db:"user_email"`
	LastChecked    *time.Time      `json:"last_checked" db:"last_checked"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	IsActive       bool            `json:"is_active" db:"is_active"`
}

// HasAlert returns true if the user set an alert threshold on this product
func (p *Product) HasAlert() bool {
	return p.AlertThreshold.Valid
}

// GetAlertThreshold returns the alert threshold, or 0 if none is set
func (p *Product) GetAlertThreshold() float64 {
	if p.AlertThreshold.Valid {
		return p.AlertThreshold.Float64
	}
	return 0.0
}

// IsAllTimeLow reports whether newPrice undercuts every price seen so far
func (p *Product) IsAllTimeLow(newPrice float64) bool {
	return newPrice > 0 && newPrice < p.LowestPrice
}

// DropPercent returns the percentage drop from the recorded highest price
func (p *Product) DropPercent() float64 {
	if p.HighestPrice <= 0 {
		return 0.0
	}
	return (p.HighestPrice - p.CurrentPrice) / p.HighestPrice * 100
}

// MarshalJSON implements custom JSON marshaling for Product
func (p *Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		*Alias
		AlertThreshold *float64 `json:"alert_threshold"`
		DropPercent    float64  `json:"price_drop_percentage"`
	}{
		Alias:          (*Alias)(p),
		AlertThreshold: p.alertThresholdPtr(),
		DropPercent:    p.DropPercent(),
	})
}

// alertThresholdPtr returns a pointer to the threshold, or nil if NULL
func (p *Product) alertThresholdPtr() *float64 {
	if p.AlertThreshold.Valid {
		threshold := p.AlertThreshold.Float64
		return &threshold
	}
	return nil
}

// PricePoint represents one entry in a product's price history ledger
type PricePoint struct {
	ID        int       `json:"id" db:"id"`
	ProductID int       `json:"product_id" db:"product_id"`
	Price     float64   `json:"price" db:"price"`
	CheckedAt time.Time `json:"checked_at" db:"checked_at"`
}

// Notification frequency preferences
const (
	FrequencyInstant = "instant"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
)

// UserPreference holds a user's notification settings
type UserPreference struct {
	UserEmail             string    `json:"user_email" db:"user_email"`
	EmailNotifications    bool      `json:"email_notifications" db:"email_notifications"`
	NotificationFrequency string    `json:"notification_frequency" db:"notification_frequency"`
	TargetDropPercent     int       `json:"target_drop_percent" db:"target_drop_percent"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

// WantsInstantAlerts returns true if the user should be emailed immediately
func (u *UserPreference) WantsInstantAlerts() bool {
	return u.EmailNotifications && u.NotificationFrequency == FrequencyInstant
}

// TrackProductRequest represents the request to start tracking a product
type TrackProductRequest struct {
	URL       string `json:"url" validate:"required,url"`
	Store     Store  `json:"store"`
	UserEmail string `json:"user_email"`
}

// SetAlertRequest represents the request to set a price alert threshold
type SetAlertRequest struct {
	Threshold float64 `json:"threshold" validate:"required,gt=0"`
}

// UpdatePreferenceRequest represents the request to change notification settings
type UpdatePreferenceRequest struct {
	UserEmail             string `json:"user_email" validate:"required,email"`
	EmailNotifications    *bool  `json:"email_notifications"`
	NotificationFrequency string `json:"notification_frequency"`
	TargetDropPercent     *int   `json:"target_drop_percent"`
}
