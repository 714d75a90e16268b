// Package domain holds the intake service's input variants, review records,
// and validation rules
package domain

import (
	"strings"
	"time"

	"intake/internal/services/intake/schedule"
)

// ReviewStatus enumerates the review moderation states
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// ParseReviewStatus normalizes a raw status string. The second return is
// false for anything outside the known set
func ParseReviewStatus(raw string) (ReviewStatus, bool) {
	switch ReviewStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	}
	return "", false
}

// ParseDecision normalizes a moderation decision. Only approved and rejected
// are legal transition targets
func ParseDecision(raw string) (ReviewStatus, bool) {
	s, ok := ParseReviewStatus(raw)
	if !ok || s == StatusPending {
		return "", false
	}
	return s, true
}

// ContactInput is the normalized contact form payload
type ContactInput struct {
	Name    string `json:"name" validate:"min=2,max=100"`
	Email   string `json:"email" validate:"email_shape,max=254"`
	Company string `json:"company" validate:"omitempty,max=200"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Message string `json:"message" validate:"min=10,max=5000,nospam"`
}

// ReviewInput is the normalized review submission payload
type ReviewInput struct {
	Name     string `json:"name" validate:"min=2,max=100"`
	Email    string `json:"email" validate:"email_shape,max=254"`
	Role     string `json:"role" validate:"omitempty,max=200"`
	Company  string `json:"company" validate:"omitempty,max=200"`
	LinkedIn string `json:"linkedin" validate:"linkedin"`
	Review   string `json:"review" validate:"min=20,max=2000,nospam"`
	Rating   string `json:"rating" validate:"rating"`
	Consent  bool   `json:"consent" validate:"consent"`
}

// BookingInput is the normalized booking payload. SlotStart is checked by
// the schedule package rather than a struct tag
type BookingInput struct {
	Name      string `json:"name" validate:"min=2,max=100"`
	Email     string `json:"email" validate:"email_shape,max=254"`
	Company   string `json:"company" validate:"omitempty,max=200"`
	Notes     string `json:"notes" validate:"omitempty,max=2000,nospam"`
	Timezone  string `json:"timezone" validate:"omitempty,max=64"`
	SlotStart string `json:"slotStart" validate:"-"`
}

// ReviewRecord is the stored shape of one review submission. Field names
// follow the store's snake_case attribute convention
type ReviewRecord struct {
	ReviewID       string       `json:"review_id"`
	Status         ReviewStatus `json:"status"`
	CreatedAt      string       `json:"created_at"`
	UpdatedAt      string       `json:"updated_at"`
	ModeratedAt    string       `json:"moderated_at,omitempty"`
	ModeratedBy    string       `json:"moderated_by,omitempty"`
	ModerationNote string       `json:"moderation_note,omitempty"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Role           string       `json:"role,omitempty"`
	Company        string       `json:"company,omitempty"`
	LinkedIn       string       `json:"linkedin"`
	Review         string       `json:"review"`
	Rating         string       `json:"rating,omitempty"`
	Consent        bool         `json:"consent"`
	SourceIP       string       `json:"source_ip,omitempty"`
	UserAgent      string       `json:"user_agent,omitempty"`
	Origin         string       `json:"origin,omitempty"`
	RequestID      string       `json:"request_id,omitempty"`
	ExpiresAt      int64        `json:"expires_at,omitempty"`
}

// BookingConfirmation is returned (and emailed) for a successful booking.
// Nothing is persisted for bookings
type BookingConfirmation struct {
	BookingID        string `json:"bookingId"`
	SlotStart        string `json:"slotStart"`
	SlotEnd          string `json:"slotEnd"`
	NotificationSent bool   `json:"notificationSent"`
}

// RequestContext carries per-request metadata from the router into the
// service layer. Immutable once built
type RequestContext struct {
	Method     string
	Path       string
	Origin     string
	RequestID  string
	SourceIP   string
	UserAgent  string
	ReceivedAt time.Time
}

// Config is the intake service's immutable runtime configuration
type Config struct {
	ServiceName   string
	Schedule      schedule.Config
	ReviewsTable  string
	RetentionDays int
}

// ReviewsEnabled reports whether a review store table is configured
func (c Config) ReviewsEnabled() bool { return c.ReviewsTable != "" }
