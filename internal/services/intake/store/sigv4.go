// Package store talks to the review item store over its signed JSON wire
// protocol without a vendor SDK
package store

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	signAlgorithm  = "AWS4-HMAC-SHA256"
	signTerminator = "aws4_request"
	amzDateLayout  = "20060102T150405Z"
	dateLayout     = "20060102"
)

// Signer computes Signature Version 4 authorization headers for item-store
// requests. Credentials are checked at signing time; running without them is
// a fatal configuration error
type Signer struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	Service      string
}

// Sign stamps the request with X-Amz-Date, the optional session token, and
// the Authorization header. The canonical request covers a fixed header set
// with an empty query string; body is hashed as-is
func (s Signer) Sign(req *http.Request, body []byte, at time.Time) {
	if s.AccessKey == "" || s.SecretKey == "" {
		panic("store: signing credentials are not configured")
	}

	at = at.UTC()
	amzDate := at.Format(amzDateLayout)
	dateStamp := at.Format(dateLayout)

	req.Header.Set("X-Amz-Date", amzDate)
	if s.SessionToken != "" {
		req.Header.Set("X-Amz-Security-Token", s.SessionToken)
	}

	host := req.Host
	if host == "" {
		host = req.URL.Host
	}

	headers := map[string]string{
		"content-type": req.Header.Get("Content-Type"),
		"host":         host,
		"x-amz-date":   amzDate,
		"x-amz-target": req.Header.Get("X-Amz-Target"),
	}
	if s.SessionToken != "" {
		headers["x-amz-security-token"] = s.SessionToken
	}

	names := make([]string, 0, len(headers))
	for n := range headers {
		names = append(names, n)
	}
	sort.Strings(names)

	var canonHeaders strings.Builder
	for _, n := range names {
		canonHeaders.WriteString(n)
		canonHeaders.WriteByte(':')
		canonHeaders.WriteString(headers[n])
		canonHeaders.WriteByte('\n')
	}
	signedHeaders := strings.Join(names, ";")

	path := req.URL.Path
	if path == "" {
		path = "/"
	}

	canonical := strings.Join([]string{
		req.Method,
		path,
		"", // query string is always empty on this wire
		canonHeaders.String(),
		signedHeaders,
		hexSHA256(body),
	}, "\n")

	scope := strings.Join([]string{dateStamp, s.Region, s.Service, signTerminator}, "/")
	stringToSign := strings.Join([]string{
		signAlgorithm,
		amzDate,
		scope,
		hexSHA256([]byte(canonical)),
	}, "\n")

	key := signingKey(s.SecretKey, dateStamp, s.Region, s.Service)
	signature := hex.EncodeToString(hmacSHA256(key, stringToSign))

	req.Header.Set("Authorization", fmt.Sprintf(
		"%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		signAlgorithm, s.AccessKey, scope, signedHeaders, signature,
	))
}

// signingKey derives the per-day key through the four-stage HMAC chain
func signingKey(secret, date, region, service string) []byte {
	k := hmacSHA256([]byte("AWS4"+secret), date)
	k = hmacSHA256(k, region)
	k = hmacSHA256(k, service)
	return hmacSHA256(k, signTerminator)
}

func hmacSHA256(key []byte, data string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}

func hexSHA256(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
