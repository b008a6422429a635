package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/testutil"
)

type fakeValidator struct {
	sessions map[string]*Session
	err      error
	calls    int
}

func (f *fakeValidator) Validate(_ context.Context, token string) (*Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.sessions[token]
	if !ok {
		return nil, ErrInvalidSession
	}
	return s, nil
}

func TestResolveEmptyTokenIsAnonymous(t *testing.T) {
	db := testutil.SetupTestDB(t)
	validator := &fakeValidator{}
	resolver := NewResolver(db, validator)

	user, err := resolver.Resolve(context.Background(), "")
	if err != nil || user != nil {
		t.Fatalf("expected anonymous without error, got %v, %v", user, err)
	}
	if validator.calls != 0 {
		t.Error("empty token must not reach the validator")
	}
}

func TestResolveInvalidToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := NewResolver(db, &fakeValidator{sessions: map[string]*Session{}})

	user, err := resolver.Resolve(context.Background(), "bogus")
	if !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
	if user != nil {
		t.Errorf("expected no user, got %+v", user)
	}
}

func TestResolveProvisionsOnFirstSignIn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	resolver := NewResolver(db, &fakeValidator{sessions: map[string]*Session{
		"token-a": {Subject: "authz-a", Email: "a@example.com", EmailVerified: true, Name: "Ann Able"},
	}})

	first, err := resolver.Resolve(context.Background(), "token-a")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if first == nil {
		t.Fatal("expected a provisioned user")
	}
	if first.VerificationStatus != models.VerificationStatusPending {
		t.Errorf("verificationStatus = %q, want pending", first.VerificationStatus)
	}
	if first.Role != models.RoleUser {
		t.Errorf("role = %q, want user", first.Role)
	}
	if first.Email != "a@example.com" || first.Name != "Ann Able" {
		t.Errorf("profile not copied: %+v", first)
	}
	if first.EmailVerificationTime == nil {
		t.Error("verified email should stamp emailVerificationTime")
	}
	if first.PhoneVerificationTime != nil {
		t.Error("unverified phone should leave phoneVerificationTime unset")
	}

	second, err := resolver.Resolve(context.Background(), "token-a")
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second sign in created a new user: %s != %s", second.ID, first.ID)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestResolveKeepsExistingUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	existing := testutil.CreateTestUser(t, db, "boss@example.com", models.VerificationStatusApproved, models.RoleSuperAdmin)

	resolver := NewResolver(db, &fakeValidator{sessions: map[string]*Session{
		"token-boss": {Subject: *existing.AuthSubject, Email: "changed@example.com"},
	}})

	user, err := resolver.Resolve(context.Background(), "token-boss")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if user.ID != existing.ID {
		t.Errorf("resolved %s, want %s", user.ID, existing.ID)
	}
	if user.Role != models.RoleSuperAdmin || user.VerificationStatus != models.VerificationStatusApproved {
		t.Errorf("existing user was modified: %+v", user)
	}
	if user.Email != "boss@example.com" {
		t.Errorf("existing profile was overwritten: %s", user.Email)
	}
}

func TestResolveValidatorError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	boom := errors.New("authorizer unreachable")
	resolver := NewResolver(db, &fakeValidator{err: boom})

	user, err := resolver.Resolve(context.Background(), "token")
	if !errors.Is(err, boom) {
		t.Errorf("expected validator error, got %v", err)
	}
	if user != nil {
		t.Error("validator failure must not resolve a user")
	}
}

func TestSessionUserMapping(t *testing.T) {
	given, family, nick := "Ann", "Able", "annie"
	verified := true

	s, err := sessionUser{ID: "sub", Email: "a@example.com", GivenName: &given, FamilyName: &family, PhoneNumberVerified: &verified}.session()
	if err != nil {
		t.Fatalf("session failed: %v", err)
	}
	if s.Name != "Ann Able" || !s.PhoneVerified {
		t.Errorf("unexpected session %+v", s)
	}

	s, _ = sessionUser{ID: "sub", Nickname: &nick}.session()
	if s.Name != "annie" {
		t.Errorf("nickname fallback: got %q", s.Name)
	}

	if _, err := (sessionUser{}).session(); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("missing subject should be invalid, got %v", err)
	}
}
