package domain

import (
	"errors"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"intake/internal/services/intake/schedule"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// Validation is two-phase: raw payloads are normalized into the typed input
// variants first (wrong-typed fields become field errors or zero values),
// then the struct rules run. Field errors from normalization always win
// over rule messages for the same field.

var (
	vOnce sync.Once
	vld   *validator.Validate
	trans ut.Translator

	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	phoneRe = regexp.MustCompile(`^[0-9 ()+\-./]{6,30}$`)
)

func rules() (*validator.Validate, ut.Translator) {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ = uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return len(s) <= 254 && emailRe.MatchString(s)
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phoneRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("nospam", func(fl validator.FieldLevel) bool {
			return !looksLikeSpam(fl.Field().String())
		})
		_ = v.RegisterValidation("linkedin", func(fl validator.FieldLevel) bool {
			return isLinkedInProfile(fl.Field().String())
		})
		_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || (len(s) == 1 && s[0] >= '1' && s[0] <= '5')
		})
		_ = v.RegisterValidation("consent", func(fl validator.FieldLevel) bool {
			return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
		})

		addMessage(v, trans, "min", "{0} is required (min {1} characters).")
		addMessage(v, trans, "max", "{0} must be at most {1} characters.")
		addMessage(v, trans, "email_shape", "Please provide a valid email address.")
		addMessage(v, trans, "phone", "Please provide a valid phone number.")
		addMessage(v, trans, "nospam", "{0} contains too many links or repeated characters.")
		addMessage(v, trans, "linkedin", "Please provide a valid HTTPS LinkedIn profile URL.")
		addMessage(v, trans, "rating", "Rating must be a number from 1 to 5.")
		addMessage(v, trans, "consent", "Consent is required to publish your review.")

		vld = v
	})
	return vld, trans
}

func addMessage(v *validator.Validate, t ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, t,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, displayName(fe.Field()), fe.Param())
			if err != nil {
				return text
			}
			return msg
		},
	)
}

// displayName turns a json field name into its message form
func displayName(field string) string {
	if field == "linkedin" {
		return "LinkedIn"
	}
	if field == "slotStart" {
		return "Slot start"
	}
	r := []rune(field)
	if len(r) == 0 {
		return field
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func looksLikeSpam(s string) bool {
	lower := strings.ToLower(s)
	if strings.Count(lower, "http://")+strings.Count(lower, "https://") > 3 {
		return true
	}
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= 15 {
				return true
			}
		} else {
			prev, run = r, 1
		}
	}
	return false
}

func isLinkedInProfile(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return false
	}
	return u.Path != "" && u.Path != "/"
}

// normalizer lifts loosely typed payload values into strings and booleans.
// Wrong-typed optional fields become field errors immediately; wrong-typed
// required strings become "" so the min rule reports them
type normalizer struct {
	m    map[string]any
	errs map[string]string
}

func newNormalizer(m map[string]any) *normalizer {
	return &normalizer{m: m, errs: map[string]string{}}
}

func (n *normalizer) str(key string) string {
	if s, ok := n.m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func (n *normalizer) optStr(key string) string {
	v, present := n.m[key]
	if !present || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		n.errs[key] = displayName(key) + " must be text."
		return ""
	}
	return strings.TrimSpace(s)
}

func (n *normalizer) rating(key string) string {
	switch v := n.m[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		n.errs[key] = "Rating must be a number from 1 to 5."
		return ""
	}
}

func (n *normalizer) consent(key string) bool {
	switch v := n.m[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "yes")
	default:
		return false
	}
}

// apply runs the struct rules and folds their messages into the error map,
// never overwriting a normalization error for the same field
func (n *normalizer) apply(input any) map[string]string {
	v, t := rules()
	err := v.Struct(input)
	if err == nil {
		return n.errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		n.errs["_"] = "Validation could not be completed."
		return n.errs
	}
	for _, fe := range verrs {
		if _, taken := n.errs[fe.Field()]; taken {
			continue
		}
		n.errs[fe.Field()] = fe.Translate(t)
	}
	return n.errs
}

// ValidateContact normalizes and validates a contact payload. An empty map
// means the input is acceptable
func ValidateContact(payload map[string]any) (ContactInput, map[string]string) {
	n := newNormalizer(payload)
	in := ContactInput{
		Name:    n.str("name"),
		Email:   n.str("email"),
		Company: n.optStr("company"),
		Phone:   n.optStr("phone"),
		Message: n.str("message"),
	}
	return in, n.apply(in)
}

// ValidateReview normalizes and validates a review submission payload
func ValidateReview(payload map[string]any) (ReviewInput, map[string]string) {
	n := newNormalizer(payload)
	in := ReviewInput{
		Name:     n.str("name"),
		Email:    n.str("email"),
		Role:     n.optStr("role"),
		Company:  n.optStr("company"),
		LinkedIn: n.str("linkedin"),
		Review:   n.str("review"),
		Rating:   n.rating("rating"),
		Consent:  n.consent("consent"),
	}
	return in, n.apply(in)
}

// ValidateBooking normalizes and validates a booking payload, including the
// requested slot against the live schedule rules
func ValidateBooking(payload map[string]any, now time.Time, cfg schedule.Config) (BookingInput, schedule.Slot, map[string]string) {
	n := newNormalizer(payload)
	in := BookingInput{
		Name:      n.str("name"),
		Email:     n.str("email"),
		Company:   n.optStr("company"),
		Notes:     n.optStr("notes"),
		Timezone:  n.optStr("timezone"),
		SlotStart: n.str("slotStart"),
	}
	errs := n.apply(in)

	var slot schedule.Slot
	if _, taken := errs["slotStart"]; !taken {
		var reason string
		slot, reason = schedule.ValidateSlot(in.SlotStart, now, cfg)
		if reason != "" {
			errs["slotStart"] = reason
		}
	}
	return in, slot, errs
}
