package service

import (
	"api"
	"api/internal/api/models"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// NotificationService sends booking emails and SMS. Everything here is
// best-effort: a failed notification never fails the write that triggered
// it, callers only log the returned error.
type NotificationService struct {
	config     api.AppConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		config:     api.GetConfig(),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     api.Logger,
	}
}

// SendBookingConfirmation emails the customer that the booking request was
// received.
func (slf *NotificationService) SendBookingConfirmation(appointment models.Appointment) error {
	if appointment.Email == "" {
		return nil
	}

	body := fmt.Sprintf(`<h2>Randevu Talebiniz Alındı</h2>
<p>Sayın %s,</p>
<p>Randevu talebiniz başarıyla alınmıştır. Detaylar:</p>
<ul>
  <li><strong>Hizmet:</strong> %s</li>
  <li><strong>Tarih:</strong> %s</li>
  <li><strong>Saat:</strong> %s</li>
</ul>
<p>En kısa sürede size dönüş yapacağız.</p>
<p>BIG BOSS Premium Kuaför</p>`,
		appointment.CustomerName, appointment.Service, appointment.Date, appointment.Time)

	return slf.sendEmail(appointment.Email, "Randevu Talebiniz Alındı - BIG BOSS", body)
}

// SendCancellationNotice emails and texts the customer that the appointment
// was cancelled.
func (slf *NotificationService) SendCancellationNotice(appointment models.Appointment) error {
	var errs []string

	if appointment.Phone != "" && slf.config.SMSConfig.From != "" {
		text := fmt.Sprintf("BIG BOSS: %s %s tarihli randevunuz iptal edilmiştir. Bilgi: 0531 491 80 35",
			appointment.Date, appointment.Time)
		if err := slf.sendSMS(appointment.Phone, text); err != nil {
			errs = append(errs, fmt.Sprintf("sms: %v", err))
		}
	}

	if appointment.Email != "" {
		body := fmt.Sprintf(`<h2>Randevu İptali</h2>
<p>Sayın %s,</p>
<p>%s %s tarihli randevunuz iptal edilmiştir.</p>
<p>Yeni randevu için bizimle iletişime geçebilirsiniz.</p>
<p>BIG BOSS Premium Kuaför<br>Tel: 0531 491 80 35</p>`,
			appointment.CustomerName, appointment.Date, appointment.Time)
		if err := slf.sendEmail(appointment.Email, "Randevu İptali - BIG BOSS", body); err != nil {
			errs = append(errs, fmt.Sprintf("email: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("cancellation notice: %s", strings.Join(errs, " | "))
	}
	return nil
}

func (slf *NotificationService) sendEmail(to string, subject string, htmlBody string) error {
	cfg := slf.config.EmailConfig
	if cfg.Host == "" {
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(cfg.From); err != nil {
		return fmt.Errorf("email from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("email to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// sendSMS posts to the Twilio REST API directly.
func (slf *NotificationService) sendSMS(to string, body string) error {
	cfg := slf.config.SMSConfig

	apiURL := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", cfg.AccountSID)
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", cfg.From)
	form.Set("Body", body)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms request: %w", err)
	}
	req.SetBasicAuth(cfg.AccountSID, cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := slf.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms send: twilio returned %s", resp.Status)
	}
	return nil
}
