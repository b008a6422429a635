package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/testutil"
	"gorm.io/gorm"
)

func run(t *testing.T, open DBOpener, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	root := RootCmd(open)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func openerFor(db *gorm.DB) DBOpener {
	return func() (*gorm.DB, error) { return db, nil }
}

func TestMigrate(t *testing.T) {
	db := testutil.SetupTestDB(t)

	out, err := run(t, openerFor(db), "migrate")
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out, "Schema is up to date") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestMigrateOpenError(t *testing.T) {
	open := func() (*gorm.DB, error) { return nil, errors.New("no database") }
	if _, err := run(t, open, "migrate"); err == nil {
		t.Fatal("expected an error when the database cannot be opened")
	}
}

func TestUsersList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, db, "pending@example.com", models.VerificationStatusPending, models.RoleUser)
	testutil.CreateTestUser(t, db, "approved@example.com", models.VerificationStatusApproved, models.RoleUnset)

	out, err := run(t, openerFor(db), "users", "list")
	if err != nil {
		t.Fatalf("users list failed: %v", err)
	}
	if !strings.Contains(out, "pending@example.com") || !strings.Contains(out, "approved@example.com") {
		t.Errorf("expected both users in output: %q", out)
	}

	out, err = run(t, openerFor(db), "users", "list", "--status", "approved")
	if err != nil {
		t.Fatalf("users list --status failed: %v", err)
	}
	if strings.Contains(out, "pending@example.com") {
		t.Errorf("status filter leaked a pending user: %q", out)
	}

	if _, err := run(t, openerFor(db), "users", "list", "--status", "banned"); err == nil {
		t.Error("expected an invalid status to fail")
	}
}

func TestUsersListEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)

	out, err := run(t, openerFor(db), "users", "list")
	if err != nil {
		t.Fatalf("users list failed: %v", err)
	}
	if !strings.Contains(out, "No users found.") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestUsersSetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "boss@example.com", models.VerificationStatusApproved, models.RoleUser)

	out, err := run(t, openerFor(db), "users", "set-role", user.ID, "super_admin")
	if err != nil {
		t.Fatalf("set-role failed: %v", err)
	}
	if !strings.Contains(out, "boss@example.com is now super_admin") {
		t.Errorf("unexpected output: %q", out)
	}

	var reloaded models.User
	if err := db.First(&reloaded, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.Role != models.RoleSuperAdmin {
		t.Errorf("role = %s, want super_admin", reloaded.Role)
	}

	if _, err := run(t, openerFor(db), "users", "set-role", user.ID, "emperor"); err == nil {
		t.Error("expected an invalid role to fail")
	}
	if _, err := run(t, openerFor(db), "users", "set-role", "6f1c1e34-2a52-4d0e-9a55-0d8f0c3f7a11", "admin"); err == nil {
		t.Error("expected an unknown user to fail")
	}
}
