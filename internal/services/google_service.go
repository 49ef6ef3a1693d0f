package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleIdentity is the verified identity extracted from a Google ID token.
type GoogleIdentity struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Audience   string `json:"aud"`
}

// GoogleVerifier validates Google ID tokens via the tokeninfo endpoint.
type GoogleVerifier struct {
	clientID     string
	tokenInfoURL string
	client       *http.Client
}

// NewGoogleVerifier constructs a GoogleVerifier for the given OAuth client ID.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:     clientID,
		tokenInfoURL: defaultTokenInfoURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyIDToken resolves the token to a Google identity, checking the
// audience against the configured client ID.
func (g *GoogleVerifier) VerifyIDToken(ctx context.Context, token string) (*GoogleIdentity, error) {
	endpoint := g.tokenInfoURL + "?" + url.Values{"id_token": {token}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create tokeninfo request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tokeninfo response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("invalid google token")
	}

	var identity GoogleIdentity
	if err := json.Unmarshal(body, &identity); err != nil {
		return nil, fmt.Errorf("unmarshal tokeninfo response: %w", err)
	}

	if identity.Email == "" || identity.Sub == "" {
		return nil, errors.New("google token missing identity claims")
	}

	if g.clientID != "" && identity.Audience != g.clientID {
		return nil, errors.New("google token audience mismatch")
	}

	return &identity, nil
}
