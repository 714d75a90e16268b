// Package notify renders and delivers the best-effort email notifications
// that follow a committed intake operation
package notify

import (
	"context"
	"fmt"
	"strings"

	"intake/internal/platform/logger"
	"intake/internal/services/intake/domain"
)

// Message is one outbound notification
type Message struct {
	Subject string
	Body    string
}

// Sender delivers a message. Delivery failure must never unwind the
// operation that triggered it; callers record the failure and move on
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender is the fallback when no mail transport is configured. It logs
// the subject and drops the body
type LogSender struct{}

// Send logs and succeeds
func (LogSender) Send(_ context.Context, msg Message) error {
	logger.Named("notify").Info().Str("subject", msg.Subject).Msg("mail transport not configured, dropping notification")
	return nil
}

// ContactMessage renders the notification for a contact submission
func ContactMessage(in domain.ContactInput, rc domain.RequestContext) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "New contact form submission\n\n")
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\n", in.Name, in.Email)
	if in.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", in.Company)
	}
	if in.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", in.Phone)
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n", in.Message)
	fmt.Fprintf(&b, "\nRequest: %s from %s\n", rc.RequestID, rc.SourceIP)
	return Message{
		Subject: fmt.Sprintf("Contact form: %s", in.Name),
		Body:    b.String(),
	}
}

// ReviewMessage renders the notification for a new pending review
func ReviewMessage(rec domain.ReviewRecord) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "New review awaiting moderation\n\n")
	fmt.Fprintf(&b, "Review ID: %s\nName: %s\nEmail: %s\n", rec.ReviewID, rec.Name, rec.Email)
	if rec.Role != "" {
		fmt.Fprintf(&b, "Role: %s\n", rec.Role)
	}
	if rec.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", rec.Company)
	}
	fmt.Fprintf(&b, "LinkedIn: %s\n", rec.LinkedIn)
	if rec.Rating != "" {
		fmt.Fprintf(&b, "Rating: %s/5\n", rec.Rating)
	}
	fmt.Fprintf(&b, "\nReview:\n%s\n", rec.Review)
	return Message{
		Subject: fmt.Sprintf("Review pending moderation: %s", rec.Name),
		Body:    b.String(),
	}
}

// BookingMessage renders the notification for a confirmed booking
func BookingMessage(in domain.BookingInput, conf domain.BookingConfirmation) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "New booking\n\n")
	fmt.Fprintf(&b, "Booking ID: %s\nName: %s\nEmail: %s\n", conf.BookingID, in.Name, in.Email)
	if in.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", in.Company)
	}
	fmt.Fprintf(&b, "Slot: %s to %s (UTC)\n", conf.SlotStart, conf.SlotEnd)
	if in.Timezone != "" {
		fmt.Fprintf(&b, "Requested timezone: %s\n", in.Timezone)
	}
	if in.Notes != "" {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", in.Notes)
	}
	return Message{
		Subject: fmt.Sprintf("Booking confirmed: %s at %s", in.Name, conf.SlotStart),
		Body:    b.String(),
	}
}
