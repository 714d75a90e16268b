package store

import (
	"fmt"
	"strconv"

	pstrings "intake/internal/platform/strings"
	"intake/internal/services/intake/domain"
)

// attributeValue is the tagged scalar representation used on the item-store
// wire. Exactly one tag is set per value
type attributeValue struct {
	S    *string `json:"S,omitempty"`
	N    *string `json:"N,omitempty"`
	BOOL *bool   `json:"BOOL,omitempty"`
	NULL *bool   `json:"NULL,omitempty"`
}

type item map[string]attributeValue

// attrOf converts a Go scalar into its tagged form. Anything outside the
// scalar set is a programming error
func attrOf(v any) attributeValue {
	switch x := v.(type) {
	case string:
		return attributeValue{S: &x}
	case bool:
		return attributeValue{BOOL: &x}
	case int:
		n := strconv.Itoa(x)
		return attributeValue{N: &n}
	case int64:
		n := strconv.FormatInt(x, 10)
		return attributeValue{N: &n}
	case float64:
		n := strconv.FormatFloat(x, 'f', -1, 64)
		return attributeValue{N: &n}
	case nil:
		t := true
		return attributeValue{NULL: &t}
	default:
		panic(fmt.Sprintf("store: unsupported attribute type %T", v))
	}
}

func (av attributeValue) asString() string {
	return pstrings.Deref(av.S)
}

func (av attributeValue) asBool() bool {
	return av.BOOL != nil && *av.BOOL
}

func (av attributeValue) asInt64() int64 {
	if av.N == nil {
		return 0
	}
	n, err := strconv.ParseInt(*av.N, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// recordItem marshals a review record, omitting empty optional attributes
func recordItem(rec domain.ReviewRecord) item {
	it := item{
		"review_id":  attrOf(rec.ReviewID),
		"status":     attrOf(string(rec.Status)),
		"created_at": attrOf(rec.CreatedAt),
		"updated_at": attrOf(rec.UpdatedAt),
		"name":       attrOf(rec.Name),
		"email":      attrOf(rec.Email),
		"linkedin":   attrOf(rec.LinkedIn),
		"review":     attrOf(rec.Review),
		"consent":    attrOf(rec.Consent),
	}
	optional := map[string]string{
		"moderated_at":    rec.ModeratedAt,
		"moderated_by":    rec.ModeratedBy,
		"moderation_note": rec.ModerationNote,
		"role":            rec.Role,
		"company":         rec.Company,
		"rating":          rec.Rating,
		"source_ip":       rec.SourceIP,
		"user_agent":      rec.UserAgent,
		"origin":          rec.Origin,
		"request_id":      rec.RequestID,
	}
	for k, v := range optional {
		if v != "" {
			it[k] = attrOf(v)
		}
	}
	if rec.ExpiresAt > 0 {
		it["expires_at"] = attrOf(rec.ExpiresAt)
	}
	return it
}

func recordFromItem(it item) domain.ReviewRecord {
	status, _ := domain.ParseReviewStatus(it["status"].asString())
	return domain.ReviewRecord{
		ReviewID:       it["review_id"].asString(),
		Status:         status,
		CreatedAt:      it["created_at"].asString(),
		UpdatedAt:      it["updated_at"].asString(),
		ModeratedAt:    it["moderated_at"].asString(),
		ModeratedBy:    it["moderated_by"].asString(),
		ModerationNote: it["moderation_note"].asString(),
		Name:           it["name"].asString(),
		Email:          it["email"].asString(),
		Role:           it["role"].asString(),
		Company:        it["company"].asString(),
		LinkedIn:       it["linkedin"].asString(),
		Review:         it["review"].asString(),
		Rating:         it["rating"].asString(),
		Consent:        it["consent"].asBool(),
		SourceIP:       it["source_ip"].asString(),
		UserAgent:      it["user_agent"].asString(),
		Origin:         it["origin"].asString(),
		RequestID:      it["request_id"].asString(),
		ExpiresAt:      it["expires_at"].asInt64(),
	}
}
