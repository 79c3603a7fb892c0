package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/common"
)

func checkInvariant(t *testing.T, result Result) {
	t.Helper()
	if result.Success && (result.MessageID == "" || result.Error != "") {
		t.Fatalf("success result must carry a message id and no error: %+v", result)
	}
	if !result.Success && (result.Error == "" || result.MessageID != "") {
		t.Fatalf("failure result must carry an error and no message id: %+v", result)
	}
}

func TestAdapterDevelopmentMode(t *testing.T) {
	a := &Adapter{Environment: common.EnvDevelopment, DefaultFrom: "noreply@x.com", Logger: zerolog.Nop()}

	result := a.Send(context.Background(), Outgoing{To: "john@x.com", Subject: "Hi", HTML: "<p>hi</p>"})
	checkInvariant(t, result)
	if !result.Success {
		t.Fatalf("development mode must always report success: %+v", result)
	}
	if !strings.HasPrefix(result.MessageID, "dev-") {
		t.Fatalf("expected dev- synthetic id, got %q", result.MessageID)
	}
}

func TestAdapterFallbackMode(t *testing.T) {
	a := &Adapter{
		Provider:    &ResendProvider{Endpoint: "https://api.resend.com"},
		Environment: common.EnvProduction,
		DefaultFrom: "noreply@x.com",
		Logger:      zerolog.Nop(),
	}

	result := a.Send(context.Background(), Outgoing{To: "john@x.com", Subject: "Hi", HTML: "<p>hi</p>"})
	checkInvariant(t, result)
	if !result.Success {
		t.Fatalf("unconfigured provider must not block the caller: %+v", result)
	}
	if !strings.HasPrefix(result.MessageID, "fallback-") {
		t.Fatalf("expected fallback- synthetic id, got %q", result.MessageID)
	}
}

func TestAdapterProviderSuccess(t *testing.T) {
	var captured sendPayload
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	a := &Adapter{
		Provider:    &ResendProvider{Endpoint: srv.URL, APIKey: "re_test"},
		Environment: common.EnvProduction,
		DefaultFrom: "AMP Vending <noreply@x.com>",
		Logger:      zerolog.Nop(),
	}

	result := a.Send(context.Background(), Outgoing{
		To:      "john@x.com, jane@x.com",
		Subject: "Hi",
		HTML:    "<p>hi</p>",
	})
	checkInvariant(t, result)
	if !result.Success || result.MessageID != "msg_123" {
		t.Fatalf("expected provider message id, got %+v", result)
	}
	if auth != "Bearer re_test" {
		t.Fatalf("expected bearer auth header, got %q", auth)
	}
	if path != "/emails" {
		t.Fatalf("expected /emails path, got %q", path)
	}
	if len(captured.To) != 2 || captured.To[0] != "john@x.com" || captured.To[1] != "jane@x.com" {
		t.Fatalf("comma-separated recipients not split into one call: %v", captured.To)
	}
	if captured.From != "AMP Vending <noreply@x.com>" {
		t.Fatalf("default from not applied: %q", captured.From)
	}
}

func TestAdapterProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"invalid from address"}`))
	}))
	defer srv.Close()

	a := &Adapter{
		Provider:    &ResendProvider{Endpoint: srv.URL, APIKey: "re_test"},
		Environment: common.EnvProduction,
		DefaultFrom: "noreply@x.com",
		Logger:      zerolog.Nop(),
	}

	result := a.Send(context.Background(), Outgoing{To: "john@x.com", Subject: "Hi", HTML: "<p>hi</p>"})
	checkInvariant(t, result)
	if result.Success {
		t.Fatalf("expected failure on provider rejection: %+v", result)
	}
	if !strings.Contains(result.Error, "invalid from address") {
		t.Fatalf("expected provider error message surfaced, got %q", result.Error)
	}
}

func TestAdapterNoRecipients(t *testing.T) {
	a := &Adapter{Environment: common.EnvDevelopment, Logger: zerolog.Nop()}

	result := a.Send(context.Background(), Outgoing{To: " , ", Subject: "Hi", HTML: "<p>hi</p>"})
	checkInvariant(t, result)
	if result.Success {
		t.Fatalf("expected failure with no recipients: %+v", result)
	}
}

func TestProviderConnectivityCheck(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/domains" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{"data":[]}`))
		}))
		defer srv.Close()

		p := &ResendProvider{Endpoint: srv.URL, APIKey: "re_test"}
		if err := p.CheckConnectivity(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"statusCode":401,"message":"API key is invalid"}`))
		}))
		defer srv.Close()

		p := &ResendProvider{Endpoint: srv.URL, APIKey: "bad"}
		err := p.CheckConnectivity(context.Background())
		if err == nil || !strings.Contains(err.Error(), "API key is invalid") {
			t.Fatalf("expected provider error message, got %v", err)
		}
	})
}

func TestSplitRecipients(t *testing.T) {
	cases := map[string]int{
		"a@x.com":                    1,
		"a@x.com,b@x.com":            2,
		" a@x.com ,  b@x.com , ":     2,
		"":                           0,
		"a@x.com, b@x.com, c@x.com ": 3,
	}
	for input, expected := range cases {
		if got := len(splitRecipients(input)); got != expected {
			t.Fatalf("splitRecipients(%q) returned %d recipients, expected %d", input, got, expected)
		}
	}
}
