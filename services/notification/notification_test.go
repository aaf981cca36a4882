package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"roame/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

func TestSendOTP(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything, "asha@example.com", "Your Roame verification code",
		mock.MatchedBy(func(body string) bool {
			return assert.Contains(t, body, "<b>482913</b>") && assert.Contains(t, body, "5 minutes")
		})).Return(nil)

	svc, err := NewDefaultNotificationService(mailer, "https://roame.test")
	require.NoError(t, err)
	require.NoError(t, svc.SendOTP(context.Background(), "asha@example.com", "482913", 5*time.Minute))
	mailer.AssertExpectations(t)
}

func TestBookingConfirmed_AbsoluteLink(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything, "asha@example.com", "Booking confirmed INV-ABC123",
		mock.MatchedBy(func(body string) bool {
			return assert.Contains(t, body, "https://roame.test/invoices/INV-ABC123.pdf")
		})).Return(nil)

	svc, err := NewDefaultNotificationService(mailer, "https://roame.test")
	require.NoError(t, err)

	b := &models.Booking{
		ID:       "b1",
		CheckIn:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
		Guests:   2,
	}
	err = svc.BookingConfirmed(context.Background(), &models.User{Email: "asha@example.com", Username: "asha"}, b,
		models.InvoiceRef{InvoiceID: "INV-ABC123", URL: "/invoices/INV-ABC123.pdf"})
	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestSendOTP_MailerFailure(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("relay down"))

	svc, _ := NewDefaultNotificationService(mailer, "")
	assert.Error(t, svc.SendOTP(context.Background(), "x@example.com", "123456", time.Minute))
}

func TestNewDefaultNotificationService_RequiresMailer(t *testing.T) {
	_, err := NewDefaultNotificationService(nil, "")
	assert.Error(t, err)
}
