package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/example/lemonpay/internal/config"
)

// WebhookVerifier checks the authenticity of inbound webhook requests.
type WebhookVerifier struct {
	secret string
}

// NewWebhookVerifier constructs a verifier for the given signing secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify reports whether signature is a valid HMAC-SHA256 hex digest of body.
// An unset or placeholder secret fails every verification, including a
// correctly computed signature.
func (v *WebhookVerifier) Verify(body []byte, signature string) bool {
	if v.secret == "" || v.secret == config.PlaceholderWebhookSecret {
		return false
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
