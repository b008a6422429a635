package utils

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-testsheets/internal/types"
)

func envelopeFor(t *testing.T, err error) (int, ErrorResponseStruct) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return err })

	resp, testErr := app.Test(httptest.NewRequest("GET", "/boom?x=1", nil))
	if testErr != nil {
		t.Fatalf("request failed: %v", testErr)
	}
	body, _ := io.ReadAll(resp.Body)

	var envelope ErrorResponseStruct
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode envelope: %v. Body: %s", err, body)
	}
	return resp.StatusCode, envelope
}

func TestErrorHandlerCustomError(t *testing.T) {
	code, envelope := envelopeFor(t, types.AccessDenied("nope"))
	if code != fiber.StatusForbidden || envelope.Status != fiber.StatusForbidden {
		t.Errorf("status = %d/%d, want 403", code, envelope.Status)
	}
	if envelope.Type != types.TypeAccessDenied || envelope.Message != "nope" {
		t.Errorf("unexpected envelope: %+v", envelope)
	}
	if envelope.Ok || envelope.URL != "/boom?x=1" || envelope.Timestamp == "" {
		t.Errorf("unexpected envelope: %+v", envelope)
	}
}

func TestErrorHandlerWrappedCustomError(t *testing.T) {
	code, envelope := envelopeFor(t, errors.Join(errors.New("context"), types.NotFound("gone")))
	if code != fiber.StatusNotFound || envelope.Type != types.TypeNotFound {
		t.Errorf("unexpected result %d %+v", code, envelope)
	}
}

func TestErrorHandlerFiberError(t *testing.T) {
	code, envelope := envelopeFor(t, fiber.NewError(fiber.StatusTeapot, "short and stout"))
	if code != fiber.StatusTeapot || envelope.Message != "short and stout" {
		t.Errorf("unexpected result %d %+v", code, envelope)
	}
}

func TestErrorHandlerHidesInternalErrors(t *testing.T) {
	code, envelope := envelopeFor(t, errors.New("dial tcp 10.0.0.1:3306: secret detail"))
	if code != fiber.StatusInternalServerError || envelope.Type != types.TypeServer {
		t.Errorf("unexpected result %d %+v", code, envelope)
	}
	if envelope.Message != "Internal server error" {
		t.Errorf("internal detail leaked: %q", envelope.Message)
	}
}

func TestPingService(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	if err := PingService(context.Background(), "http://"+listener.Addr().String(), AuthorizerPingTimeout); err != nil {
		t.Errorf("expected listener to be reachable: %v", err)
	}
}

func TestPingServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"no host", "http://"},
		{"bad url", "://bad"},
		{"closed port", "http://127.0.0.1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := PingService(context.Background(), tt.url, AuthorizerPingTimeout); err == nil {
				t.Errorf("expected an error for %q", tt.url)
			}
		})
	}
}
