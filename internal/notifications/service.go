package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/quotify/quotifyd/internal/config"
	"github.com/quotify/quotifyd/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service handles sending notifications via configured channels
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

type webhookMessage struct {
	Text string `json:"text"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Notice delivers a transient status string. It always logs; when a webhook
// is configured the message is also posted there. Failures are logged and
// dropped, never returned.
func (s *Service) Notice(message string) {
	logrus.Info(message)

	if s.config.WebhookURL == "" {
		return
	}

	if err := s.postWebhook(message); err != nil {
		logrus.Errorf("Failed to post notice to webhook: %v", err)
	}
}

// SendDailyQuote sends the quote of the day through every configured channel
func (s *Service) SendDailyQuote(daily *models.DailyQuote) error {
	var errors []string

	if s.config.WebhookURL != "" {
		if err := s.postWebhook(s.buildWebhookText(daily)); err != nil {
			logrus.Errorf("Failed to send webhook notification: %v", err)
			errors = append(errors, fmt.Sprintf("Webhook: %v", err))
		} else {
			logrus.Info("Successfully sent daily quote to webhook")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(daily); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent daily quote via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) postWebhook(text string) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(webhookMessage{Text: text}).
		Post(s.config.WebhookURL)

	if err != nil {
		return fmt.Errorf("failed to post webhook message: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildWebhookText(daily *models.DailyQuote) string {
	text := fmt.Sprintf("Quote of the day: %q — %s", daily.Quote.Text, daily.Quote.Author)
	if daily.Analytics != nil && len(daily.Analytics.Themes) > 0 {
		text += fmt.Sprintf(" [%s]", strings.Join(daily.Analytics.Themes, ", "))
	}
	return text
}

var emailTemplate = template.Must(template.New("daily").Parse(`
<h2>Your quote of the day</h2>
<blockquote style="font-size:1.2em">{{.Quote.Text}}</blockquote>
<p>— <strong>{{.Quote.Author}}</strong> ({{.Quote.Category}})</p>
{{if .Analytics}}
<ul>
  <li>Words: {{.Analytics.WordCount}} ({{.Analytics.ReadingTime}} read)</li>
  <li>Sentiment: {{.Analytics.Sentiment.Display}}</li>
  <li>Complexity: {{.Analytics.Complexity.Level}}</li>
  <li>Themes: {{range $i, $t := .Analytics.Themes}}{{if $i}}, {{end}}{{$t}}{{end}}</li>
</ul>
{{end}}
{{if .UsedBackup}}<p><em>Pulled from the backup source today.</em></p>{{end}}
<p style="color:#888">Sent {{.GeneratedAt.Format "2006-01-02 15:04 UTC"}}</p>
`))

func (s *Service) sendEmail(daily *models.DailyQuote) error {
	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, daily); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", fmt.Sprintf("Quote of the day — %s", daily.Quote.Author))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
