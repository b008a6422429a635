package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-testsheets/internal/models"
)

type stubResolver struct {
	user   *models.User
	err    error
	tokens []string
}

func (s *stubResolver) Resolve(_ context.Context, token string) (*models.User, error) {
	s.tokens = append(s.tokens, token)
	return s.user, s.err
}

func newIdentityApp(resolver CallerResolver) *fiber.App {
	app := fiber.New()
	app.Use(Identity(resolver, "cookie_session"))
	app.Get("/who", func(c *fiber.Ctx) error {
		caller := Caller(c)
		if caller == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(caller.ID)
	})
	return app
}

func get(t *testing.T, app *fiber.App, cookie string) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/who", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "cookie_session", Value: cookie})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("identity middleware must never reject, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestIdentityResolvesCaller(t *testing.T) {
	resolver := &stubResolver{user: &models.User{ID: "6f1c1e34-2a52-4d0e-9a55-0d8f0c3f7a11"}}
	app := newIdentityApp(resolver)

	if got := get(t, app, "token-1"); got != "6f1c1e34-2a52-4d0e-9a55-0d8f0c3f7a11" {
		t.Errorf("got %q", got)
	}
	if len(resolver.tokens) != 1 || resolver.tokens[0] != "token-1" {
		t.Errorf("resolver saw %v", resolver.tokens)
	}
}

func TestIdentityNoCookie(t *testing.T) {
	resolver := &stubResolver{user: &models.User{ID: "x"}}
	app := newIdentityApp(resolver)

	if got := get(t, app, ""); got != "anonymous" {
		t.Errorf("got %q", got)
	}
	if len(resolver.tokens) != 0 {
		t.Error("resolver should not be called without a cookie")
	}
}

func TestIdentityFailureIsAnonymous(t *testing.T) {
	app := newIdentityApp(&stubResolver{err: errors.New("session is not valid")})

	if got := get(t, app, "expired"); got != "anonymous" {
		t.Errorf("got %q", got)
	}
}

func TestIdentityNilResolver(t *testing.T) {
	app := newIdentityApp(nil)

	if got := get(t, app, "token"); got != "anonymous" {
		t.Errorf("got %q", got)
	}
}
