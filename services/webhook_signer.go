package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignWebhookPayload computes the hex HMAC-SHA256 of the exact serialized
// payload bytes with the merchant's webhook secret. The receiver verifies
// over the same raw body, so the bytes must not be re-serialized after
// signing.
func SignWebhookPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature is the receiver-side check, resistant to timing
// attacks.
func VerifyWebhookSignature(secret string, payload []byte, signature string) bool {
	expected := SignWebhookPayload(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
