package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/k-krishaa/Books/internal/models"
)

// Mailer delivers a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes messages to the standard logger instead of sending them.
// It stands in for a real provider until one is configured.
type LogMailer struct {
	Logger *log.Logger
}

func (m LogMailer) Send(_ context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("email: empty recipient for %q", subject)
	}
	logf := log.Printf
	if m.Logger != nil {
		logf = m.Logger.Printf
	}
	logf("--- EMAIL to=%s subject=%q ---\n%s\n--- END EMAIL ---", to, subject, body)
	return nil
}

// SendWelcome greets a newly registered user.
func SendWelcome(ctx context.Context, m Mailer, u *models.User) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour bookstore account is ready. You can now sign in, build a cart and keep a wishlist.\n",
		u.Username,
	)
	return m.Send(ctx, u.Email, "Welcome to the bookstore", body)
}

// SendOrderConfirmation summarises a completed order.
func SendOrderConfirmation(ctx context.Context, m Mailer, u *models.User, o *models.Order) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order #%d.\n\n", u.Username, o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "  %d x %s @ $%s = $%s\n", it.Quantity, it.Title, it.UnitPrice.StringFixed(2), it.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n", o.Total.StringFixed(2))
	return m.Send(ctx, u.Email, fmt.Sprintf("Order #%d confirmed", o.ID), b.String())
}
