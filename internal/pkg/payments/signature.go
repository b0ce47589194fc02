package payments

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// Sign computes the provider's request signature:
// hex(md5(base64(raw_body) + secret)). MD5 here is the provider's contract,
// not a choice.
func Sign(rawBody []byte, secret string) string {
	encoded := base64.StdEncoding.EncodeToString(rawBody)
	sum := md5.Sum([]byte(encoded + secret))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks the `sign` header against the recomputed value in
// constant time. Any mismatch must reject the webhook before any processing.
func VerifySignature(rawBody []byte, signatureHeader, secret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" || secret == "" {
		return false
	}
	expected := Sign(rawBody, secret)
	return hmac.Equal([]byte(strings.ToLower(sig)), []byte(expected))
}
