package email

import (
	"fmt"

	"blog-server/notify"

	"go.uber.org/zap"
)

// SendContactMessage relays a contact form submission to the site's inbox.
// Delivery failures are logged and reported through the return value, never raised.
func SendContactMessage(name, email, phone, message string) bool {
	if transport == nil {
		zap.S().Error("Failed to send email: no mail transport configured")
		return false
	}

	msg := &Message{
		From:    sender,
		To:      recipient,
		Subject: "New Message from " + name,
		Body:    fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\nMessage: %s", name, email, phone, message),
	}

	err := transport.Send(msg)
	if err != nil {
		zap.S().Errorf("Failed to send email: %v", err)
		notify.NotifyErr(notify.SeverityError, "contact message not delivered", err)
		return false
	}

	zap.S().Info("Email sent successfully.")

	return true
}
