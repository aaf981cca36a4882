package notification

import (
	"context"
	"fmt"
	"html"
	"time"

	"roame/models"
	"roame/utils"

	"go.uber.org/zap"
)

// NotificationService sends the mails users receive from the marketplace.
type NotificationService interface {
	SendOTP(ctx context.Context, email, otp string, ttl time.Duration) error
	BookingConfirmed(ctx context.Context, user *models.User, b *models.Booking, invoice models.InvoiceRef) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	mailer Mailer
	// Absolute base for links inside mails, e.g. https://roame.app
	baseURL string
}

func NewDefaultNotificationService(mailer Mailer, baseURL string) (*DefaultNotificationService, error) {
	if mailer == nil {
		return nil, fmt.Errorf("notification service initialization error: mailer is nil")
	}
	return &DefaultNotificationService{mailer: mailer, baseURL: baseURL}, nil
}

// SendOTP mails a signup verification code.
func (s *DefaultNotificationService) SendOTP(ctx context.Context, email, otp string, ttl time.Duration) error {
	body := fmt.Sprintf(
		"<h2>Welcome to Roame</h2><p>Your verification code is <b>%s</b>.</p><p>It expires in %d minutes.</p>",
		html.EscapeString(otp), int(ttl.Minutes()))
	if err := s.mailer.Send(ctx, email, "Your Roame verification code", body); err != nil {
		return fmt.Errorf("SendOTP: %w", err)
	}
	utils.GetLogger().Info("OTP mail sent", zap.String("email", email))
	return nil
}

// BookingConfirmed mails the guest their stay details and invoice link.
func (s *DefaultNotificationService) BookingConfirmed(ctx context.Context, user *models.User, b *models.Booking, invoice models.InvoiceRef) error {
	if user == nil || user.Email == "" {
		return fmt.Errorf("BookingConfirmed: no email for booking %s", b.ID)
	}
	link := invoice.URL
	if len(link) > 0 && link[0] == '/' {
		link = s.baseURL + link
	}
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your booking is confirmed from <b>%s</b> to <b>%s</b> for %d guest(s).</p>"+
			"<p>Invoice %s: <a href=\"%s\">download</a></p>",
		html.EscapeString(user.DisplayName()),
		b.CheckIn.Format(models.DateLayout),
		b.CheckOut.Format(models.DateLayout),
		b.Guests,
		html.EscapeString(invoice.InvoiceID),
		html.EscapeString(link),
	)
	if err := s.mailer.Send(ctx, user.Email, "Booking confirmed "+invoice.InvoiceID, body); err != nil {
		return fmt.Errorf("BookingConfirmed: %w", err)
	}
	return nil
}
