package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoogleTestVerifier(clientID, endpoint string) *GoogleVerifier {
	verifier := NewGoogleVerifier(clientID)
	verifier.tokenInfoURL = endpoint
	return verifier
}

func TestGoogleVerifier_VerifyIDToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "some-token", r.URL.Query().Get("id_token"))
		_, _ = w.Write([]byte(`{
			"sub": "109876",
			"email": "user@example.com",
			"given_name": "Ada",
			"family_name": "Lovelace",
			"aud": "client-1"
		}`))
	}))
	defer server.Close()

	identity, err := newGoogleTestVerifier("client-1", server.URL).VerifyIDToken(context.Background(), "some-token")
	require.NoError(t, err)

	assert.Equal(t, "109876", identity.Sub)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.Equal(t, "Ada", identity.GivenName)
	assert.Equal(t, "Lovelace", identity.FamilyName)
}

func TestGoogleVerifier_AudienceMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sub":"1","email":"user@example.com","aud":"someone-else"}`))
	}))
	defer server.Close()

	_, err := newGoogleTestVerifier("client-1", server.URL).VerifyIDToken(context.Background(), "some-token")
	assert.Error(t, err)
}

func TestGoogleVerifier_RejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newGoogleTestVerifier("client-1", server.URL).VerifyIDToken(context.Background(), "bad-token")
	assert.Error(t, err)
}
