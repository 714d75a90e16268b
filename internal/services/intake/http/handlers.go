package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"
	"time"

	perr "intake/internal/platform/errors"
	lumnet "intake/internal/platform/net"
	httpkit "intake/internal/platform/net/http"
	"intake/internal/platform/net/http/bind"
	ptime "intake/internal/platform/time"
	"intake/internal/services/intake/domain"
	"intake/internal/services/intake/service"

	"github.com/go-chi/chi/v5"
)

// Handlers adapts the intake service to the platform HTTP kit
type Handlers struct {
	svc     *service.Service
	cfg     domain.Config
	maxBody int64
	now     func() time.Time
}

// New builds the handler set
func New(svc *service.Service, cfg domain.Config, maxBody int64) *Handlers {
	return &Handlers{svc: svc, cfg: cfg, maxBody: maxBody, now: time.Now}
}

// Health answers liveness probes. It sits outside the origin guard
func (h *Handlers) Health(_ *stdhttp.Request) (lumnet.Fields, error) {
	return lumnet.Fields{
		"status":    "ok",
		"service":   h.cfg.ServiceName,
		"timestamp": ptime.FormatInstant(h.now().UTC()),
	}, nil
}

// Contact handles POST /contact
func (h *Handlers) Contact(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	payload, err := ParseBody(r, h.maxBody)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	msg, err := h.svc.Contact(r.Context(), payload, h.requestContext(r))
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	httpkit.RespondOK(w, r, lumnet.Fields{"message": msg})
}

// SubmitReview handles POST /reviews
func (h *Handlers) SubmitReview(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	payload, err := ParseBody(r, h.maxBody)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	id, err := h.svc.SubmitReview(r.Context(), payload, h.requestContext(r))
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	httpkit.RespondOK(w, r, lumnet.Fields{"reviewId": id})
}

// ListReviews handles GET /reviews
func (h *Handlers) ListReviews(r *stdhttp.Request) (lumnet.Fields, error) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	status, recs, err := h.svc.ListReviews(r.Context(), r.URL.Query().Get("status"), limit)
	if err != nil {
		return nil, err
	}
	return lumnet.Fields{
		"filter":  string(status),
		"count":   len(recs),
		"reviews": recs,
	}, nil
}

// moderateBody keeps decision and note loosely typed so wrong types map to
// their own error codes instead of a generic parse failure
type moderateBody struct {
	Decision any `json:"decision"`
	Note     any `json:"note"`
}

// Moderate handles POST /reviews/{reviewID}/moderate
func (h *Handlers) Moderate(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	reviewID := strings.TrimSpace(chi.URLParam(r, "reviewID"))
	if reviewID == "" {
		httpkit.RespondError(w, r, perr.New(perr.ErrorCodeInvalidReviewID, "A review id is required."))
		return
	}

	body, err := bind.ParseJSON[moderateBody](r, bind.JSONOptions{MaxBytes: h.maxBody, DisallowUnknown: false})
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	decision, ok := body.Decision.(string)
	if !ok {
		httpkit.RespondError(w, r, perr.New(perr.ErrorCodeInvalidDecision, "Decision must be approved or rejected."))
		return
	}
	note := ""
	if body.Note != nil {
		note, ok = body.Note.(string)
		if !ok {
			httpkit.RespondError(w, r, perr.New(perr.ErrorCodeInvalidNote, "Note must be text."))
			return
		}
		note = strings.TrimSpace(note)
	}

	moderatedBy := lumnet.ClaimsFrom(r.Context()).Identity()
	rec, err := h.svc.Moderate(r.Context(), reviewID, decision, note, moderatedBy)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	httpkit.RespondOK(w, r, lumnet.Fields{
		"review": lumnet.Fields{
			"review_id":       rec.ReviewID,
			"status":          string(rec.Status),
			"moderated_at":    rec.ModeratedAt,
			"moderated_by":    rec.ModeratedBy,
			"moderation_note": rec.ModerationNote,
		},
	})
}

// Availability handles GET /availability
func (h *Handlers) Availability(r *stdhttp.Request) (lumnet.Fields, error) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	slots, err := h.svc.Availability(days, strings.TrimSpace(r.URL.Query().Get("date")))
	if err != nil {
		return nil, err
	}
	out := make([]lumnet.Fields, 0, len(slots))
	for _, s := range slots {
		out = append(out, lumnet.Fields{
			"slotStart": s.StartString(),
			"slotEnd":   s.EndString(),
		})
	}
	return lumnet.Fields{
		"slotDurationMinutes": h.cfg.Schedule.SlotMinutes,
		"timezone":            "UTC",
		"slots":               out,
	}, nil
}

// Booking handles POST /booking
func (h *Handlers) Booking(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	payload, err := ParseBody(r, h.maxBody)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	conf, err := h.svc.Booking(r.Context(), payload, h.requestContext(r))
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	httpkit.RespondOK(w, r, lumnet.Fields{
		"bookingId":        conf.BookingID,
		"slotStart":        conf.SlotStart,
		"slotEnd":          conf.SlotEnd,
		"notificationSent": conf.NotificationSent,
	})
}

func (h *Handlers) requestContext(r *stdhttp.Request) domain.RequestContext {
	ctx := r.Context()
	return domain.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		Origin:     lumnet.Origin(ctx),
		RequestID:  lumnet.RequestID(ctx),
		SourceIP:   r.RemoteAddr,
		UserAgent:  r.UserAgent(),
		ReceivedAt: h.now(),
	}
}
