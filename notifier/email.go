package notifier

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"pricetrack/config"
	"pricetrack/models"
)

// Notifier sends price-drop emails. When SMTP is disabled it logs the email
// instead of sending, so local setups work without a mail server.
type Notifier struct {
	cfg config.SMTPConfig
}

// NewNotifier creates a notifier from the SMTP configuration
func NewNotifier(cfg config.SMTPConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// ShouldAlert decides whether a fresh price justifies an instant alert:
// the price hit an all-time low or crossed the user's threshold, and the
// user wants instant emails.
func ShouldAlert(product *models.Product, pref *models.UserPreference, newPrice float64) bool {
	if pref == nil || !pref.WantsInstantAlerts() || newPrice <= 0 {
		return false
	}
	if product.IsAllTimeLow(newPrice) {
		return true
	}
	return product.HasAlert() && newPrice <= product.GetAlertThreshold()
}

// SendPriceDropAlert sends an instant price-drop email
func (n *Notifier) SendPriceDropAlert(to string, product *models.Product, oldPrice, newPrice float64) error {
	subject := "🔥 Price Drop Alert!"
	body := fmt.Sprintf("The price of %s has dropped from %.2f to %.2f!\n\n%s\n",
		product.Title, oldPrice, newPrice, product.URL)

	return n.send(to, subject, body)
}

// SendDigest sends one daily or weekly summary of a user's dropped prices
func (n *Notifier) SendDigest(to, period string, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	subject := fmt.Sprintf("🔥 Your %s Price Drops Update", capitalize(period))

	var body strings.Builder
	fmt.Fprintf(&body, "Price drops on %d of your tracked products:\n\n", len(products))
	for _, product := range products {
		fmt.Fprintf(&body, "- %s: %.2f (was up to %.2f, -%.1f%%)\n  %s\n",
			product.Title, product.CurrentPrice, product.HighestPrice,
			product.DropPercent(), product.URL)
	}

	return n.send(to, subject, body.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// send delivers one plain-text email over SMTP
func (n *Notifier) send(to, subject, body string) error {
	if !n.cfg.Enabled {
		log.Printf("SMTP disabled, skipping email to %s: %s", to, subject)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		n.cfg.From, to, subject, body)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := smtp.SendMail(n.cfg.Addr(), auth, n.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %v", to, err)
	}

	log.Printf("📧 Sent email to %s: %s", to, subject)
	return nil
}
