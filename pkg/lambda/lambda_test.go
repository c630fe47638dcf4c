package lambda

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/sigrod-cmd/Examen-licencia/internal/config"
	"github.com/sigrod-cmd/Examen-licencia/internal/providers"
	"github.com/sigrod-cmd/Examen-licencia/pkg/server"
)

func TestFromAPIGatewayRequest(t *testing.T) {
	tests := []struct {
		name     string
		event    events.APIGatewayProxyRequest
		wantBody string
		wantErr  bool
	}{
		{
			name:     "PlainBody",
			event:    events.APIGatewayProxyRequest{HTTPMethod: "POST", Path: "/api/generate-image", Body: `{"prompt":"stop sign"}`},
			wantBody: `{"prompt":"stop sign"}`,
		},
		{
			name: "Base64Body",
			event: events.APIGatewayProxyRequest{
				HTTPMethod:      "POST",
				Body:            base64.StdEncoding.EncodeToString([]byte(`{"prompt":"stop sign"}`)),
				IsBase64Encoded: true,
			},
			wantBody: `{"prompt":"stop sign"}`,
		},
		{
			name:    "InvalidBase64",
			event:   events.APIGatewayProxyRequest{HTTPMethod: "POST", Body: "%%%", IsBase64Encoded: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := FromAPIGatewayRequest(tt.event)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if req.Method != tt.event.HTTPMethod {
				t.Errorf("Expected method %s, got %s", tt.event.HTTPMethod, req.Method)
			}
			if string(req.Body) != tt.wantBody {
				t.Errorf("Expected body %s, got %s", tt.wantBody, req.Body)
			}
		})
	}
}

func TestFromAPIGatewayRequest_MultiValueHeaders(t *testing.T) {
	req, err := FromAPIGatewayRequest(events.APIGatewayProxyRequest{
		HTTPMethod:        "POST",
		Headers:           map[string]string{"Content-Type": "application/json"},
		MultiValueHeaders: map[string][]string{"X-Request-ID": {"abc"}, "Content-Type": {"text/plain"}},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Headers["X-Request-ID"] != "abc" {
		t.Errorf("Expected multi-value header to be merged, got %v", req.Headers)
	}
	if req.Headers["Content-Type"] != "application/json" {
		t.Errorf("Single-value headers take precedence, got %v", req.Headers["Content-Type"])
	}
}

func TestToAPIGatewayResponse(t *testing.T) {
	resp := (&Response{
		StatusCode: 405,
		Headers:    map[string]string{"Allow": "POST"},
		Body:       []byte(`{"error":"Method Not Allowed"}`),
	}).ToAPIGatewayResponse()

	if resp.StatusCode != 405 || resp.Body != `{"error":"Method Not Allowed"}` || resp.Headers["Allow"] != "POST" {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestContainerManager(t *testing.T) {
	loads := 0
	cm := NewContainerManager(func() (*config.Config, error) {
		loads++
		return &config.Config{
			Provider: config.ProviderConfig{Profile: providers.DefaultProfile},
			Relay:    config.RelayConfig{Timeout: time.Second},
		}, nil
	}, server.WithCredentials(config.StaticCredential("key")))

	if cm.IsWarm(time.Minute) {
		t.Error("Expected cold manager")
	}

	first, err := cm.GetContainer()
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	second, err := cm.GetContainer()
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	if first != second || loads != 1 {
		t.Errorf("Expected the container to be reused, loads=%d", loads)
	}
	if !cm.IsWarm(time.Minute) {
		t.Error("Expected warm manager")
	}

	if err := cm.Cleanup(); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if cm.IsWarm(time.Minute) {
		t.Error("Expected cold manager after cleanup")
	}
}

func TestContainerManager_RetriesFailedInit(t *testing.T) {
	calls := 0
	cm := NewContainerManager(func() (*config.Config, error) {
		calls++
		return nil, errors.New("config unavailable")
	})

	for i := 0; i < 2; i++ {
		if _, err := cm.GetContainer(); err == nil {
			t.Fatal("Expected error")
		}
	}
	if calls != 2 {
		t.Errorf("Expected init to be retried, got %d calls", calls)
	}
}
