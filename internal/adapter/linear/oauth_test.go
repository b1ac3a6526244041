package linear_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hookline/hookline/internal/adapter/linear"
)

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "authorization_code" {
			t.Fatalf("unexpected grant_type: %q", got)
		}
		if got := r.PostForm.Get("code"); got != "auth-code-1" {
			t.Fatalf("unexpected code: %q", got)
		}
		if got := r.PostForm.Get("actor"); got != "app" {
			t.Fatalf("unexpected actor: %q", got)
		}
		if got := r.PostForm.Get("client_secret"); got != "shh" {
			t.Fatalf("unexpected client_secret: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"lin_oauth_abc","token_type":"Bearer","expires_in":315705599,"scope":"read write"}`))
	}))
	defer srv.Close()

	cfg := linear.OAuthConfig{TokenURL: srv.URL, ClientID: "app-id", ClientSecret: "shh"}
	tok, err := linear.ExchangeCode(context.Background(), cfg, "auth-code-1", "https://example.com/oauth/callback")
	if err != nil {
		t.Fatalf("ExchangeCode failed: %v", err)
	}
	if tok.AccessToken != "lin_oauth_abc" {
		t.Fatalf("unexpected token: %q", tok.AccessToken)
	}
}

func TestExchangeCodeMissingCredentials(t *testing.T) {
	cfg := linear.OAuthConfig{TokenURL: "http://localhost:9"}
	_, err := linear.ExchangeCode(context.Background(), cfg, "code", "uri")
	if err == nil {
		t.Fatal("expected error without client credentials")
	}
}

func TestExchangeCodeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := linear.OAuthConfig{TokenURL: srv.URL, ClientID: "id", ClientSecret: "secret"}
	_, err := linear.ExchangeCode(context.Background(), cfg, "expired", "uri")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
}
