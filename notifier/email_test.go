package notifier

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"pricetrack/models"
)

func instantPref() *models.UserPreference {
	return &models.UserPreference{
		UserEmail:             "user@example.com",
		EmailNotifications:    true,
		NotificationFrequency: models.FrequencyInstant,
	}
}

func TestShouldAlertAllTimeLow(t *testing.T) {
	product := &models.Product{LowestPrice: 100, CurrentPrice: 120}

	assert.True(t, ShouldAlert(product, instantPref(), 95), "new all-time low")
	assert.False(t, ShouldAlert(product, instantPref(), 100), "matching the low is not a new low")
	assert.False(t, ShouldAlert(product, instantPref(), 110))
}

func TestShouldAlertThresholdCrossed(t *testing.T) {
	product := &models.Product{
		LowestPrice:    100,
		CurrentPrice:   150,
		AlertThreshold: sql.NullFloat64{Float64: 140, Valid: true},
	}

	assert.True(t, ShouldAlert(product, instantPref(), 140), "at threshold")
	assert.True(t, ShouldAlert(product, instantPref(), 130))
	assert.False(t, ShouldAlert(product, instantPref(), 145))
}

func TestShouldAlertRespectsPreferences(t *testing.T) {
	product := &models.Product{LowestPrice: 100, CurrentPrice: 120}

	disabled := instantPref()
	disabled.EmailNotifications = false
	assert.False(t, ShouldAlert(product, disabled, 95))

	daily := instantPref()
	daily.NotificationFrequency = models.FrequencyDaily
	assert.False(t, ShouldAlert(product, daily, 95), "digest users get no instant emails")

	assert.False(t, ShouldAlert(product, nil, 95))
}

func TestShouldAlertIgnoresZeroPrice(t *testing.T) {
	product := &models.Product{
		LowestPrice:    100,
		AlertThreshold: sql.NullFloat64{Float64: 140, Valid: true},
	}

	assert.False(t, ShouldAlert(product, instantPref(), 0), "price 0 means extraction failed, not free")
}
