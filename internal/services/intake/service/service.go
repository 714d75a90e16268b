// Package service implements the intake workflows behind the HTTP layer
package service

import (
	"context"
	"time"

	perr "intake/internal/platform/errors"
	"intake/internal/platform/logger"
	ptime "intake/internal/platform/time"
	"intake/internal/services/intake/domain"
	"intake/internal/services/intake/notify"
	"intake/internal/services/intake/schedule"

	"github.com/google/uuid"
)

// ContactReply is the user-facing acknowledgement for a contact submission
const ContactReply = "Thanks for reaching out. We'll get back to you soon."

// Service wires validation, scheduling, the review store, and notifications.
// One instance serves all requests; it holds no mutable state
type Service struct {
	cfg    domain.Config
	store  domain.ReviewStore
	sender notify.Sender
	log    logger.Logger
	now    func() time.Time
	newID  func() string
}

// New builds a Service. store may be nil when no review table is
// configured; review routes then answer with a configuration error
func New(cfg domain.Config, store domain.ReviewStore, sender notify.Sender) *Service {
	if sender == nil {
		sender = notify.LogSender{}
	}
	return &Service{
		cfg:    cfg,
		store:  store,
		sender: sender,
		log:    *logger.Named("intake"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Contact validates a contact payload and fires the notification. The
// submission is not persisted; a failed send is logged, never surfaced
func (s *Service) Contact(ctx context.Context, payload map[string]any, rc domain.RequestContext) (string, error) {
	in, fieldErrs := domain.ValidateContact(payload)
	if len(fieldErrs) > 0 {
		return "", perr.Validation(fieldErrs)
	}
	if err := s.sender.Send(ctx, notify.ContactMessage(in, rc)); err != nil {
		s.log.Error().Err(err).Str("request_id", rc.RequestID).Msg("contact notification failed")
	}
	return ContactReply, nil
}

// SubmitReview validates and persists a pending review, then notifies
// best-effort. An id collision on the conditional write is a server fault,
// not a user one
func (s *Service) SubmitReview(ctx context.Context, payload map[string]any, rc domain.RequestContext) (string, error) {
	if s.store == nil {
		return "", perr.New(perr.ErrorCodeReviewsNotConfigured, "Reviews are not available right now.")
	}
	in, fieldErrs := domain.ValidateReview(payload)
	if len(fieldErrs) > 0 {
		return "", perr.Validation(fieldErrs)
	}

	now := s.now().UTC()
	rec := domain.ReviewRecord{
		ReviewID:  s.newID(),
		Status:    domain.StatusPending,
		CreatedAt: ptime.FormatInstant(now),
		UpdatedAt: ptime.FormatInstant(now),
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		Company:   in.Company,
		LinkedIn:  in.LinkedIn,
		Review:    in.Review,
		Rating:    in.Rating,
		Consent:   in.Consent,
		SourceIP:  rc.SourceIP,
		UserAgent: rc.UserAgent,
		Origin:    rc.Origin,
		RequestID: rc.RequestID,
	}
	if s.cfg.RetentionDays > 0 {
		rec.ExpiresAt = now.AddDate(0, 0, s.cfg.RetentionDays).Unix()
	}

	if err := s.store.Put(ctx, rec); err != nil {
		if perr.IsCode(err, perr.ErrorCodeConditionalFailed) {
			return "", perr.Wrapf(err, perr.ErrorCodeInternal, "review id collision on %s", rec.ReviewID)
		}
		return "", err
	}

	if err := s.sender.Send(ctx, notify.ReviewMessage(rec)); err != nil {
		s.log.Error().Err(err).Str("review_id", rec.ReviewID).Msg("review notification failed")
	}
	return rec.ReviewID, nil
}

// ListReviews returns up to limit records for a status, newest first.
// An empty status filters on approved
func (s *Service) ListReviews(ctx context.Context, statusRaw string, limit int) (domain.ReviewStatus, []domain.ReviewRecord, error) {
	if s.store == nil {
		return "", nil, perr.New(perr.ErrorCodeReviewsNotConfigured, "Reviews are not available right now.")
	}
	status := domain.StatusApproved
	if statusRaw != "" {
		var ok bool
		status, ok = domain.ParseReviewStatus(statusRaw)
		if !ok {
			return "", nil, perr.New(perr.ErrorCodeInvalidStatus, "Status must be pending, approved, or rejected.")
		}
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	recs, err := s.store.ByStatus(ctx, status, limit)
	if err != nil {
		return "", nil, err
	}
	return status, recs, nil
}

// Moderate applies an approve or reject decision to an existing review.
// There is no guard against re-moderation; a later decision overwrites an
// earlier one
func (s *Service) Moderate(ctx context.Context, reviewID, decisionRaw, note, moderatedBy string) (domain.ReviewRecord, error) {
	if s.store == nil {
		return domain.ReviewRecord{}, perr.New(perr.ErrorCodeReviewsNotConfigured, "Reviews are not available right now.")
	}
	if reviewID == "" {
		return domain.ReviewRecord{}, perr.New(perr.ErrorCodeInvalidReviewID, "A review id is required.")
	}
	decision, ok := domain.ParseDecision(decisionRaw)
	if !ok {
		return domain.ReviewRecord{}, perr.New(perr.ErrorCodeInvalidDecision, "Decision must be approved or rejected.")
	}

	at := ptime.FormatInstant(s.now().UTC())
	rec, err := s.store.Moderate(ctx, reviewID, decision, moderatedBy, note, at)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeConditionalFailed) {
			return domain.ReviewRecord{}, perr.Wrap(err, perr.ErrorCodeReviewNotFound, "Review not found.")
		}
		return domain.ReviewRecord{}, err
	}
	return rec, nil
}

// Availability generates bookable slots from a start date. days is clamped
// to the lookahead window; an unparseable date is a client error
func (s *Service) Availability(daysRaw int, dateRaw string) ([]schedule.Slot, error) {
	now := s.now().UTC()
	start := now
	if dateRaw != "" {
		d, err := time.ParseInLocation("2006-01-02", dateRaw, time.UTC)
		if err != nil {
			return nil, perr.New(perr.ErrorCodeInvalidDate, "Date must be formatted YYYY-MM-DD.")
		}
		start = d
	}
	days := daysRaw
	if days <= 0 || days > s.cfg.Schedule.LookaheadDays {
		days = s.cfg.Schedule.LookaheadDays
	}
	slots := schedule.Generate(start, days, now, s.cfg.Schedule)
	if slots == nil {
		slots = []schedule.Slot{}
	}
	return slots, nil
}

// Booking validates a booking request including its slot, then notifies
// best-effort. The slot is never reserved server-side, so a validated
// booking is already committed; a failed notification only flips the flag
func (s *Service) Booking(ctx context.Context, payload map[string]any, rc domain.RequestContext) (domain.BookingConfirmation, error) {
	in, slot, fieldErrs := domain.ValidateBooking(payload, s.now().UTC(), s.cfg.Schedule)
	if len(fieldErrs) > 0 {
		return domain.BookingConfirmation{}, perr.Validation(fieldErrs)
	}

	conf := domain.BookingConfirmation{
		BookingID:        s.newID(),
		SlotStart:        slot.StartString(),
		SlotEnd:          slot.EndString(),
		NotificationSent: true,
	}
	if err := s.sender.Send(ctx, notify.BookingMessage(in, conf)); err != nil {
		conf.NotificationSent = false
		s.log.Error().Err(err).Str("booking_id", conf.BookingID).Msg("booking notification failed")
	}
	return conf, nil
}
