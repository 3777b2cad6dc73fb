// Package signing implements the HMAC helper behind time-limited evidence
// download URLs.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Signer generates and validates HMAC based signatures.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer.
func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret}
}

// Sign returns the hex signature for an object key and expiry.
func (s *Signer) Sign(objectKey string, expiresUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	payload := fmt.Sprintf("%s:%d", objectKey, expiresUnix)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Validate compares the provided signature with the expected one and checks
// the expiry has not passed.
func (s *Signer) Validate(objectKey, expires, signature string, now time.Time) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return false
	}
	if now.Unix() > exp {
		return false
	}
	expected := s.Sign(objectKey, exp)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// URLEvidencia builds the signed download URL the API serves for an evidence
// object. The key carries the uploaded filename, so each path segment is
// escaped; the handler sees the decoded path and validates against the raw
// key, the same string that was signed.
func (s *Signer) URLEvidencia(baseURL, objectKey string, expires time.Time) string {
	exp := expires.Unix()
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(exp, 10))
	q.Set("sig", s.Sign(objectKey, exp))
	segmentos := strings.Split(objectKey, "/")
	for i, seg := range segmentos {
		segmentos[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/api/evidencias/%s?%s", baseURL, strings.Join(segmentos, "/"), q.Encode())
}
