package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sigrod-cmd/Examen-licencia/internal/config"
	"github.com/sigrod-cmd/Examen-licencia/internal/providers"
)

const testCredential = "test-api-key-0123456789-abcdef"

// fakeProvider is an httptest upstream that counts calls and records the last request
type fakeProvider struct {
	server   *httptest.Server
	calls    int32
	lastAuth atomic.Value
	lastKey  atomic.Value
	lastBody atomic.Value
}

func newFakeProvider(t *testing.T, status int, contentType, body string) *fakeProvider {
	t.Helper()
	fp := &fakeProvider{}
	fp.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fp.calls, 1)
		data, _ := io.ReadAll(r.Body)
		fp.lastBody.Store(string(data))
		fp.lastAuth.Store(r.Header.Get("Authorization"))
		fp.lastKey.Store(r.URL.Query().Get("key"))
		if r.Method != http.MethodPost || !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(fp.server.Close)
	return fp
}

func (fp *fakeProvider) callCount() int {
	return int(atomic.LoadInt32(&fp.calls))
}

func newTestService(t *testing.T, profileName, baseURL string, creds config.CredentialSource) RelayService {
	t.Helper()
	profile, err := providers.Resolve(profileName, providers.Overrides{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	svc, err := NewRelayService(&RelayConfig{
		Profile:     profile,
		Credentials: creds,
		Timeout:     5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewRelayService failed: %v", err)
	}
	return svc
}

func geminiBody(text string) string {
	quoted, _ := json.Marshal(text)
	return `{"candidates":[{"content":{"parts":[{"text":` + string(quoted) + `}],"role":"model"},"finishReason":"STOP"}]}`
}

func TestNewRelayService(t *testing.T) {
	if _, err := NewRelayService(nil); err == nil {
		t.Error("Expected error for nil config")
	}

	profile, _ := providers.Lookup(providers.DefaultProfile)
	if _, err := NewRelayService(&RelayConfig{Profile: profile}); err == nil {
		t.Error("Expected error for missing credential source")
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("StripsCodeFences", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusOK, "application/json", geminiBody("```svg\n<svg width=\"10\"></svg>\n```\n"))
		svc := newTestService(t, "gemini-svg", fp.server.URL+"/v1beta/models/m:generateContent", config.StaticCredential(testCredential))

		res, err := svc.Generate(ctx, "stop sign")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if res.Text != `<svg width="10"></svg>` {
			t.Errorf("Expected stripped svg, got %q", res.Text)
		}
		if res.Value() != `<svg width="10"></svg>` {
			t.Errorf("Value should return the text, got %v", res.Value())
		}
		if res.Profile != "gemini-svg" {
			t.Errorf("Expected profile gemini-svg, got %s", res.Profile)
		}
	})

	t.Run("QueryAuthAndContentsSchema", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusOK, "application/json", geminiBody("ok"))
		svc := newTestService(t, "gemini-text", fp.server.URL, config.StaticCredential(testCredential))

		if _, err := svc.Generate(ctx, "hello"); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if got := fp.lastKey.Load(); got != testCredential {
			t.Errorf("Expected key query param, got %v", got)
		}
		if got := fp.lastAuth.Load(); got != "" {
			t.Errorf("Expected no Authorization header, got %v", got)
		}
		if got := fp.lastBody.Load(); got != `{"contents":[{"parts":[{"text":"hello"}]}]}` {
			t.Errorf("Unexpected body %v", got)
		}
	})

	t.Run("BearerAuthAndStructuredResult", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusOK, "application/json", `{"image":{"url":"https://cdn.example.com/x.png"}}`)
		svc := newTestService(t, "image", fp.server.URL, config.StaticCredential(testCredential))

		res, err := svc.Generate(ctx, "a cat")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if got := fp.lastAuth.Load(); got != "Bearer "+testCredential {
			t.Errorf("Expected bearer header, got %v", got)
		}
		if got := fp.lastKey.Load(); got != "" {
			t.Errorf("Expected no key query param, got %v", got)
		}
		if got := fp.lastBody.Load(); got != `{"prompt":"a cat"}` {
			t.Errorf("Unexpected body %v", got)
		}
		if string(res.Structured) != `{"url":"https://cdn.example.com/x.png"}` {
			t.Errorf("Unexpected structured result %s", res.Structured)
		}
	})

	t.Run("MessagesSchema", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusOK, "application/json", `{"candidates":[{"content":"hi there"}]}`)
		svc := newTestService(t, "palm-chat", fp.server.URL, config.StaticCredential(testCredential))

		res, err := svc.Generate(ctx, "hi")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if res.Text != "hi there" {
			t.Errorf("Expected hi there, got %q", res.Text)
		}
		if got := fp.lastBody.Load(); got != `{"prompt":{"messages":[{"content":"hi"}]}}` {
			t.Errorf("Unexpected body %v", got)
		}
	})

	t.Run("ProviderErrorMessage", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusBadRequest, "application/json", `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)
		svc := newTestService(t, "gemini-svg", fp.server.URL, config.StaticCredential(testCredential))

		_, err := svc.Generate(ctx, "stop sign")
		upstreamErr, ok := IsUpstreamError(err)
		if !ok {
			t.Fatalf("Expected UpstreamError, got %v", err)
		}
		if upstreamErr.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", upstreamErr.StatusCode)
		}
		if !strings.Contains(upstreamErr.PublicMessage(), "API key not valid") {
			t.Errorf("Expected provider message, got %q", upstreamErr.PublicMessage())
		}
	})

	t.Run("ProviderPlainTextError", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusServiceUnavailable, "text/plain", "upstream overloaded")
		svc := newTestService(t, "gemini-svg", fp.server.URL, config.StaticCredential(testCredential))

		_, err := svc.Generate(ctx, "stop sign")
		upstreamErr, ok := IsUpstreamError(err)
		if !ok {
			t.Fatalf("Expected UpstreamError, got %v", err)
		}
		if upstreamErr.PublicMessage() != "API Error: 503" {
			t.Errorf("Expected generic status message, got %q", upstreamErr.PublicMessage())
		}
	})

	t.Run("MissingResultPath", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusOK, "application/json", `{"candidates":[{"finishReason":"SAFETY"}]}`)
		svc := newTestService(t, "gemini-svg", fp.server.URL, config.StaticCredential(testCredential))

		_, err := svc.Generate(ctx, "stop sign")
		if !errors.Is(err, ErrUnexpectedResponse) {
			t.Errorf("Expected ErrUnexpectedResponse, got %v", err)
		}
	})

	t.Run("NonJSONSuccessBody", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusOK, "text/html", "<html>maintenance</html>")
		svc := newTestService(t, "gemini-svg", fp.server.URL, config.StaticCredential(testCredential))

		_, err := svc.Generate(ctx, "stop sign")
		if !errors.Is(err, ErrUnexpectedResponse) {
			t.Errorf("Expected ErrUnexpectedResponse, got %v", err)
		}
	})

	t.Run("TruncatedJSONSuccessBody", func(t *testing.T) {
		full := geminiBody("<svg/>")
		fp := newFakeProvider(t, http.StatusOK, "application/json", full[:len(full)-2])
		svc := newTestService(t, "gemini-svg", fp.server.URL, config.StaticCredential(testCredential))

		_, err := svc.Generate(ctx, "stop sign")
		if !errors.Is(err, ErrUnexpectedResponse) {
			t.Errorf("Expected ErrUnexpectedResponse, got %v", err)
		}
	})

	t.Run("MissingCredentialSkipsCall", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusOK, "application/json", geminiBody("ok"))
		svc := newTestService(t, "gemini-svg", fp.server.URL, config.StaticCredential(""))

		_, err := svc.Generate(ctx, "stop sign")
		if !errors.Is(err, ErrMissingCredential) {
			t.Errorf("Expected ErrMissingCredential, got %v", err)
		}
		if fp.callCount() != 0 {
			t.Errorf("Expected no outbound call, got %d", fp.callCount())
		}
	})

	t.Run("TransportErrorIsRedacted", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusOK, "application/json", geminiBody("ok"))
		baseURL := fp.server.URL
		fp.server.Close()

		svc := newTestService(t, "gemini-svg", baseURL, config.StaticCredential(testCredential))
		_, err := svc.Generate(ctx, "stop sign")
		upstreamErr, ok := IsUpstreamError(err)
		if !ok {
			t.Fatalf("Expected UpstreamError, got %v", err)
		}
		if upstreamErr.StatusCode != 0 {
			t.Errorf("Expected no status code, got %d", upstreamErr.StatusCode)
		}
		if strings.Contains(err.Error(), testCredential) {
			t.Errorf("Credential leaked in error: %v", err)
		}
		if strings.Contains(upstreamErr.PublicMessage(), "127.0.0.1") {
			t.Errorf("Public message exposes transport details: %q", upstreamErr.PublicMessage())
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusOK, "application/json", geminiBody("ok"))
		svc := newTestService(t, "gemini-svg", fp.server.URL, config.StaticCredential(testCredential))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.Generate(cancelled, "stop sign")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})

	t.Run("RepeatedCallsAreIndependent", func(t *testing.T) {
		fp := newFakeProvider(t, http.StatusOK, "application/json", geminiBody("```svg\n<svg/>\n```"))
		svc := newTestService(t, "gemini-svg", fp.server.URL, config.StaticCredential(testCredential))

		first, err := svc.Generate(ctx, "stop sign")
		if err != nil {
			t.Fatalf("First Generate failed: %v", err)
		}
		second, err := svc.Generate(ctx, "stop sign")
		if err != nil {
			t.Fatalf("Second Generate failed: %v", err)
		}
		if first.Text != second.Text || first.Profile != second.Profile || !bytes.Equal(first.Structured, second.Structured) {
			t.Errorf("Expected identical results, got %+v and %+v", first, second)
		}
		if fp.callCount() != 2 {
			t.Errorf("Expected exactly one call per request, got %d", fp.callCount())
		}
	})
}
