package store

import (
	"context"

	pstrings "intake/internal/platform/strings"
	"intake/internal/services/intake/domain"
)

// statusIndex orders records per status by creation time
const statusIndex = "status-created_at-index"

// Reviews implements domain.ReviewStore over the signed wire client.
// Conditional expressions are the only concurrency mechanism; there is no
// in-process locking anywhere above this layer
type Reviews struct {
	client *Client
	table  string
}

// NewReviews binds a client to a table. An empty table name is a wiring
// mistake, not a runtime condition
func NewReviews(c *Client, table string) *Reviews {
	return &Reviews{client: c, table: pstrings.MustString(table, "reviews table")}
}

type putItemInput struct {
	TableName           string `json:"TableName"`
	Item                item   `json:"Item"`
	ConditionExpression string `json:"ConditionExpression"`
}

type queryInput struct {
	TableName                 string                    `json:"TableName"`
	IndexName                 string                    `json:"IndexName"`
	KeyConditionExpression    string                    `json:"KeyConditionExpression"`
	ExpressionAttributeNames  map[string]string         `json:"ExpressionAttributeNames"`
	ExpressionAttributeValues map[string]attributeValue `json:"ExpressionAttributeValues"`
	ScanIndexForward          bool                      `json:"ScanIndexForward"`
	Limit                     int                       `json:"Limit"`
}

type queryOutput struct {
	Items []item `json:"Items"`
}

type updateItemInput struct {
	TableName                 string                    `json:"TableName"`
	Key                       item                      `json:"Key"`
	UpdateExpression          string                    `json:"UpdateExpression"`
	ConditionExpression       string                    `json:"ConditionExpression"`
	ExpressionAttributeNames  map[string]string         `json:"ExpressionAttributeNames"`
	ExpressionAttributeValues map[string]attributeValue `json:"ExpressionAttributeValues"`
	ReturnValues              string                    `json:"ReturnValues"`
}

type updateItemOutput struct {
	Attributes item `json:"Attributes"`
}

// Put creates the record. The condition makes id collision a hard failure
// rather than a silent overwrite
func (r *Reviews) Put(ctx context.Context, rec domain.ReviewRecord) error {
	in := putItemInput{
		TableName:           r.table,
		Item:                recordItem(rec),
		ConditionExpression: "attribute_not_exists(review_id)",
	}
	return r.client.call(ctx, "PutItem", in, nil)
}

// ByStatus returns up to limit records for a status, newest first
func (r *Reviews) ByStatus(ctx context.Context, status domain.ReviewStatus, limit int) ([]domain.ReviewRecord, error) {
	in := queryInput{
		TableName:                r.table,
		IndexName:                statusIndex,
		KeyConditionExpression:   "#s = :s",
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]attributeValue{
			":s": attrOf(string(status)),
		},
		ScanIndexForward: false,
		Limit:            limit,
	}
	var out queryOutput
	if err := r.client.call(ctx, "Query", in, &out); err != nil {
		return nil, err
	}
	recs := make([]domain.ReviewRecord, 0, len(out.Items))
	for _, it := range out.Items {
		recs = append(recs, recordFromItem(it))
	}
	return recs, nil
}

// Moderate transitions an existing record in one atomic write and returns
// the updated row. A missing id comes back as a conditional failure
func (r *Reviews) Moderate(
	ctx context.Context,
	id string,
	decision domain.ReviewStatus,
	moderatedBy, note, at string,
) (domain.ReviewRecord, error) {
	in := updateItemInput{
		TableName: r.table,
		Key:       item{"review_id": attrOf(id)},
		UpdateExpression: "SET #s = :s, updated_at = :t, moderated_at = :t, " +
			"moderated_by = :by, moderation_note = :note",
		ConditionExpression:      "attribute_exists(review_id)",
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]attributeValue{
			":s":    attrOf(string(decision)),
			":t":    attrOf(at),
			":by":   attrOf(moderatedBy),
			":note": attrOf(note),
		},
		ReturnValues: "ALL_NEW",
	}
	var out updateItemOutput
	if err := r.client.call(ctx, "UpdateItem", in, &out); err != nil {
		return domain.ReviewRecord{}, err
	}
	return recordFromItem(out.Attributes), nil
}
