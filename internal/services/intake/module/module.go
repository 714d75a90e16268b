// Package module wires the intake service from configuration and mounts
// its routes
package module

import (
	stdhttp "net/http"
	"time"

	"intake/internal/platform/config"
	perr "intake/internal/platform/errors"
	httpkit "intake/internal/platform/net/http"
	"intake/internal/platform/net/middleware"
	"intake/internal/services/intake/domain"
	inhttp "intake/internal/services/intake/http"
	"intake/internal/services/intake/notify"
	"intake/internal/services/intake/schedule"
	"intake/internal/services/intake/service"
	"intake/internal/services/intake/store"
)

// Options is everything the intake module reads from the environment
type Options struct {
	Domain         domain.Config
	AllowedOrigins []string
	MaxBodyBytes   int64

	StoreRegion    string
	StoreAccessKey string
	StoreSecretKey string
	StoreToken     string
	StoreEndpoint  string

	SMTP notify.SMTPConfig
}

// FromConfig reads the module options. Schedule defaults describe a
// Monday-to-Friday 09:00-17:00 UTC grid of half-hour slots
func FromConfig(cfg config.Conf) Options {
	workdays := map[time.Weekday]bool{}
	for _, d := range cfg.MayCSV("WORKDAYS", []string{"1", "2", "3", "4", "5"}) {
		switch d {
		case "0", "7":
			workdays[time.Sunday] = true
		case "1":
			workdays[time.Monday] = true
		case "2":
			workdays[time.Tuesday] = true
		case "3":
			workdays[time.Wednesday] = true
		case "4":
			workdays[time.Thursday] = true
		case "5":
			workdays[time.Friday] = true
		case "6":
			workdays[time.Saturday] = true
		}
	}

	return Options{
		Domain: domain.Config{
			ServiceName:   cfg.MayString("SERVICE_NAME", "intake-api"),
			ReviewsTable:  cfg.MayString("REVIEWS_TABLE", ""),
			RetentionDays: cfg.MayInt("RETENTION_DAYS", 365),
			Schedule: schedule.Config{
				SlotMinutes:    cfg.MayInt("SLOT_MINUTES", 30),
				LookaheadDays:  cfg.MayInt("LOOKAHEAD_DAYS", 14),
				MinLeadMinutes: cfg.MayInt("MIN_LEAD_MINUTES", 120),
				StartHour:      cfg.MayInt("START_HOUR", 9),
				EndHour:        cfg.MayInt("END_HOUR", 17),
				Workdays:       workdays,
			},
		},
		AllowedOrigins: cfg.MayCSV("ALLOWED_ORIGINS", []string{"https://example.com"}),
		MaxBodyBytes:   int64(cfg.MayInt("MAX_BODY_BYTES", 10240)),

		StoreRegion:    cfg.MayString("AWS_REGION", "us-east-1"),
		StoreAccessKey: cfg.MayString("AWS_ACCESS_KEY_ID", ""),
		StoreSecretKey: cfg.MayString("AWS_SECRET_ACCESS_KEY", ""),
		StoreToken:     cfg.MayString("AWS_SESSION_TOKEN", ""),
		StoreEndpoint:  cfg.MayString("STORE_ENDPOINT", ""),

		SMTP: notify.SMTPConfig{
			Host: cfg.MayString("SMTP_HOST", ""),
			Port: cfg.MayInt("SMTP_PORT", 587),
			User: cfg.MayString("SMTP_USER", ""),
			Pass: cfg.MayString("SMTP_PASS", ""),
			From: cfg.MayString("SMTP_FROM", ""),
			To:   cfg.MayString("SMTP_TO", ""),
		},
	}
}

// Module holds the wired intake service
type Module struct {
	opts     Options
	handlers *inhttp.Handlers
}

// New wires store, sender, service, and handlers from options. The store
// stays nil without a configured table; the sender falls back to logging
// without a configured SMTP host
func New(opts Options) (*Module, error) {
	var reviews domain.ReviewStore
	if opts.Domain.ReviewsEnabled() {
		client := store.NewClient(store.Options{
			Region:       opts.StoreRegion,
			AccessKey:    opts.StoreAccessKey,
			SecretKey:    opts.StoreSecretKey,
			SessionToken: opts.StoreToken,
			Endpoint:     opts.StoreEndpoint,
		})
		reviews = store.NewReviews(client, opts.Domain.ReviewsTable)
	}

	var sender notify.Sender = notify.LogSender{}
	if opts.SMTP.Host != "" {
		s, err := notify.NewSMTPSender(opts.SMTP)
		if err != nil {
			return nil, err
		}
		sender = s
	}

	return NewWithDeps(opts, reviews, sender), nil
}

// NewWithDeps wires the module around externally supplied collaborators
func NewWithDeps(opts Options, reviews domain.ReviewStore, sender notify.Sender) *Module {
	svc := service.New(opts.Domain, reviews, sender)
	return &Module{
		opts:     opts,
		handlers: inhttp.New(svc, opts.Domain, opts.MaxBodyBytes),
	}
}

// Name identifies the module
func (m *Module) Name() string { return "intake" }

// MountRoutes attaches the route table. Health bypasses the origin guard;
// everything else sits behind it, and the review admin surface also
// requires gateway claims
func (m *Module) MountRoutes(r httpkit.Router) {
	// Preflight must sit ahead of the CORS handler so OPTIONS always gets
	// the bare 204; CORS then decorates every normal response
	r.Use(middleware.Preflight(m.opts.AllowedOrigins))
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: m.opts.AllowedOrigins,
		MaxAge:         600,
	}))

	r.NotFound(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		httpkit.RespondError(w, req, perr.New(perr.ErrorCodeNotFound, "Route not found."))
	})
	r.MethodNotAllowed(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		httpkit.RespondError(w, req, perr.New(perr.ErrorCodeMethodNotAllowed, "Method not allowed."))
	})

	httpkit.GetJSON(r, "/health", m.handlers.Health)

	r.Group(func(g httpkit.Router) {
		g.Use(middleware.OriginGuard(m.opts.AllowedOrigins))

		g.Post("/contact", m.handlers.Contact)
		httpkit.GetJSON(g, "/availability", m.handlers.Availability)
		g.Post("/booking", m.handlers.Booking)
		g.Post("/reviews", m.handlers.SubmitReview)

		g.Group(func(a httpkit.Router) {
			a.Use(middleware.Claims(true))
			httpkit.GetJSON(a, "/reviews", m.handlers.ListReviews)
			a.Post("/reviews/{reviewID}/moderate", m.handlers.Moderate)
		})
	})
}
