package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	perr "intake/internal/platform/errors"
	"intake/internal/platform/logger"
)

const (
	targetPrefix   = "DynamoDB_20120810."
	wireContent    = "application/x-amz-json-1.0"
	defaultTimeout = 10 * time.Second
)

// Options configures the item-store client
type Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	SessionToken string

	// Endpoint overrides the derived regional endpoint, mainly for tests
	// and local store emulators
	Endpoint string

	Timeout time.Duration
}

// Client issues signed JSON calls to the item store. It performs no
// retries; a failed call is the caller's problem to surface
type Client struct {
	http     *http.Client
	signer   Signer
	endpoint string
	log      logger.Logger
	now      func() time.Time
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	endpoint := o.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://dynamodb.%s.amazonaws.com", o.Region)
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		signer: Signer{
			AccessKey:    o.AccessKey,
			SecretKey:    o.SecretKey,
			SessionToken: o.SessionToken,
			Region:       o.Region,
			Service:      "dynamodb",
		},
		endpoint: strings.TrimRight(endpoint, "/"),
		log:      *logger.Named("store"),
		now:      time.Now,
	}
}

// storeFault is the store's error body shape
type storeFault struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

// call signs and sends one operation, decoding the response into out when
// it is non-nil
func (c *Client) call(ctx context.Context, operation string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInternal, "store marshal %s failed", operation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/", bytes.NewReader(body))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeInternal, "store new request failed")
	}
	req.Header.Set("Content-Type", wireContent)
	req.Header.Set("X-Amz-Target", targetPrefix+operation)
	c.signer.Sign(req, body, c.now())

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStoreUnavailable, "store %s transport failed", operation)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStoreUnavailable, "store %s read failed", operation)
	}

	c.log.Debug().
		Str("operation", operation).
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Msg("store response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fault storeFault
		_ = json.Unmarshal(raw, &fault)
		if strings.Contains(fault.Type, "ConditionalCheckFailedException") {
			return perr.Newf(perr.ErrorCodeConditionalFailed, "store %s condition failed", operation)
		}
		return perr.Newf(perr.ErrorCodeStoreUnavailable,
			"store %s failed: status %d kind %s", operation, resp.StatusCode, fault.Type)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeStoreUnavailable, "store %s decode failed", operation)
		}
	}
	return nil
}
