package repository

import (
	"fmt"
	"time"

	"pricetrack/database"
	"pricetrack/models"
)

type PreferenceRepository struct{}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{}
}

// GetOrCreate returns the user's preferences, creating the default row
// (instant email notifications) on first access.
func (r *PreferenceRepository) GetOrCreate(userEmail string) (*models.UserPreference, error) {
	query := `
		INSERT INTO user_preferences (user_email, updated_at)
		VALUES ($1, $2)
		ON CONFLICT (user_email) DO UPDATE SET user_email = EXCLUDED.user_email
		RETURNING user_email, email_notifications, notification_frequency, target_drop_percent, updated_at
	`

	var pref models.UserPreference
	err := database.DB.QueryRow(query, userEmail, time.Now()).Scan(
		&pref.UserEmail, &pref.EmailNotifications, &pref.NotificationFrequency,
		&pref.TargetDropPercent, &pref.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %v", err)
	}

	return &pref, nil
}

// Update persists changed notification settings
func (r *PreferenceRepository) Update(pref *models.UserPreference) error {
	query := `
		UPDATE user_preferences
		SET email_notifications = $2, notification_frequency = $3, target_drop_percent = $4, updated_at = $5
		WHERE user_email = $1
	`

	result, err := database.DB.Exec(query,
		pref.UserEmail, pref.EmailNotifications, pref.NotificationFrequency,
		pref.TargetDropPercent, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %v", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("preferences not found")
	}

	return nil
}

// GetByFrequency returns every user who opted into email notifications at
// the given frequency. This drives the digest jobs.
func (r *PreferenceRepository) GetByFrequency(frequency string) ([]models.UserPreference, error) {
	query := `
		SELECT user_email, email_notifications, notification_frequency, target_drop_percent, updated_at
		FROM user_preferences
		WHERE email_notifications = true AND notification_frequency = $1
	`

	rows, err := database.DB.Query(query, frequency)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences by frequency: %v", err)
	}
	defer rows.Close()

	var prefs []models.UserPreference
	for rows.Next() {
		var pref models.UserPreference
		err := rows.Scan(
			&pref.UserEmail, &pref.EmailNotifications, &pref.NotificationFrequency,
			&pref.TargetDropPercent, &pref.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preference: %v", err)
		}
		prefs = append(prefs, pref)
	}

	return prefs, nil
}
