package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(t *testing.T, wantBody string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if string(body) != wantBody {
			t.Fatalf("handler saw body %q, want %q", body, wantBody)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestWebhookHMACValid(t *testing.T) {
	secret := "test-secret"
	payload := []byte(`{"type":"Issue","action":"create"}`)

	h := WebhookHMAC(secret, SignatureHeader)(okHandler(t, string(payload)))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/linear", bytes.NewReader(payload))
	req.Header.Set(SignatureHeader, Sign(payload, secret))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestWebhookHMACPrefixedSignature(t *testing.T) {
	secret := "test-secret"
	payload := []byte(`{"type":"Comment"}`)

	h := WebhookHMAC(secret, SignatureHeader)(okHandler(t, string(payload)))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/linear", bytes.NewReader(payload))
	req.Header.Set(SignatureHeader, "sha256="+Sign(payload, secret))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestWebhookHMACMismatch(t *testing.T) {
	payload := []byte(`{"type":"Issue"}`)

	h := WebhookHMAC("real-secret", SignatureHeader)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/linear", bytes.NewReader(payload))
	req.Header.Set(SignatureHeader, Sign(payload, "wrong-secret"))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestWebhookHMACMissingSignature(t *testing.T) {
	h := WebhookHMAC("secret", SignatureHeader)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/linear", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWebhookHMACNoSecretConfigured(t *testing.T) {
	h := WebhookHMAC("", SignatureHeader)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/linear", bytes.NewReader([]byte("{}")))
	req.Header.Set(SignatureHeader, "deadbeef")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestWebhookHMACGarbageSignature(t *testing.T) {
	h := WebhookHMAC("secret", SignatureHeader)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/linear", bytes.NewReader([]byte("{}")))
	req.Header.Set(SignatureHeader, "not-hex!!")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
