package notifications

import "github.com/quotify/quotifyd/internal/models"

// NotificationInterface defines the contract for notification services
type NotificationInterface interface {
	// Notice delivers a short-lived human-readable status string,
	// fire-and-forget
	Notice(message string)
	SendDailyQuote(daily *models.DailyQuote) error
}
