package services

import (
	"testing"

	"github.com/localnerve/jam-build-testsheets/internal/directory"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/testutil"
	"github.com/localnerve/jam-build-testsheets/internal/types"
)

func TestGetMyProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateTestUser(t, db, "alice@example.com", models.VerificationStatusPending, models.RoleUser)

	profile, err := GetMyProfile(db, alice)
	if err != nil {
		t.Fatalf("GetMyProfile failed: %v", err)
	}
	if profile == nil || profile.ID != alice.ID {
		t.Fatalf("expected alice, got %+v", profile)
	}

	profile, err = GetMyProfile(db, nil)
	if err != nil || profile != nil {
		t.Errorf("anonymous caller should get nil, got %+v, %v", profile, err)
	}

	ghost := &models.User{ID: "11111111-2222-4333-8444-555555555555"}
	profile, err = GetMyProfile(db, ghost)
	if err != nil || profile != nil {
		t.Errorf("caller without a record should get nil, got %+v, %v", profile, err)
	}
}

func TestListUsersProjection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	pending := testutil.CreateTestUser(t, db, "a@example.com", models.VerificationStatusPending, models.RoleAdmin)
	approved := testutil.CreateTestUser(t, db, "b@example.com", models.VerificationStatusApproved, models.RoleUser)
	testutil.CreateTestUser(t, db, "c@example.com", models.VerificationStatusDeclined, models.RoleSuperAdmin)

	tests := []struct {
		name     string
		caller   *models.User
		wantFull bool
	}{
		{name: "anonymous", caller: nil, wantFull: false},
		{name: "pending admin", caller: pending, wantFull: false},
		{name: "approved user", caller: approved, wantFull: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := ListUsers(db, tt.caller, directory.Query{})
			if err != nil {
				t.Fatalf("ListUsers failed: %v", err)
			}
			if list.Full != tt.wantFull {
				t.Errorf("Full = %v, want %v", list.Full, tt.wantFull)
			}
			if list.Total != 3 || len(list.Users) != 3 {
				t.Fatalf("expected 3 users, got total=%d len=%d", list.Total, len(list.Users))
			}
			for _, e := range list.Users {
				if (e.PrivateUser != nil) != tt.wantFull {
					t.Errorf("entry %s: PrivateUser present = %v", e.ID, e.PrivateUser != nil)
				}
			}
		})
	}
}

func TestListUsersQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, db, "ann@example.com", models.VerificationStatusPending, models.RoleUser)
	testutil.CreateTestUser(t, db, "bob@example.com", models.VerificationStatusApproved, models.RoleUser)
	testutil.CreateTestUser(t, db, "bea@example.org", models.VerificationStatusApproved, models.RoleUser)

	list, err := ListUsers(db, nil, directory.Query{Status: "approved", Search: "example.org"})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if list.Total != 1 || list.Users[0].Email != "bea@example.org" {
		t.Errorf("unexpected result %+v", list)
	}
}

func TestUpdateUserVerificationStatusPreconditions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	target := testutil.CreateTestUser(t, db, "target@example.com", models.VerificationStatusPending, models.RoleUser)
	admin := testutil.CreateTestUser(t, db, "admin@example.com", models.VerificationStatusApproved, models.RoleAdmin)
	super := testutil.CreateTestUser(t, db, "super@example.com", models.VerificationStatusApproved, models.RoleSuperAdmin)
	ghost := &models.User{ID: "11111111-2222-4333-8444-555555555555", Role: models.RoleSuperAdmin}

	tests := []struct {
		name     string
		caller   *models.User
		targetID string
		status   string
		wantType string
	}{
		{name: "invalid status", caller: super, targetID: target.ID, status: "banned", wantType: types.TypeValidation},
		{name: "unset status", caller: super, targetID: target.ID, status: "", wantType: types.TypeValidation},
		{name: "anonymous", caller: nil, targetID: target.ID, status: "approved", wantType: types.TypeAuthenticationRequired},
		{name: "no profile", caller: ghost, targetID: target.ID, status: "approved", wantType: types.TypeProfileNotFound},
		{name: "admin denied", caller: admin, targetID: target.ID, status: "approved", wantType: types.TypeAccessDenied},
		{name: "self as user denied", caller: target, targetID: target.ID, status: "approved", wantType: types.TypeAccessDenied},
		{name: "malformed target", caller: super, targetID: "not-a-uuid", status: "approved", wantType: types.TypeTargetNotFound},
		{name: "unknown target", caller: super, targetID: "22222222-3333-4444-8555-666666666666", status: "approved", wantType: types.TypeTargetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UpdateUserVerificationStatus(db, tt.caller, tt.targetID, tt.status)
			if !types.IsKind(err, tt.wantType) {
				t.Errorf("expected %s, got %v", tt.wantType, err)
			}

			var reloaded models.User
			db.First(&reloaded, "id = ?", target.ID)
			if reloaded.VerificationStatus != models.VerificationStatusPending {
				t.Errorf("target was mutated to %q", reloaded.VerificationStatus)
			}
		})
	}
}

func TestUpdateUserVerificationStatusFreeTransitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	target := testutil.CreateTestUser(t, db, "target@example.com", models.VerificationStatusPending, models.RoleUser)
	super := testutil.CreateTestUser(t, db, "super@example.com", models.VerificationStatusPending, models.RoleSuperAdmin)

	sequence := []models.VerificationStatus{
		models.VerificationStatusApproved,
		models.VerificationStatusApproved,
		models.VerificationStatusDeclined,
		models.VerificationStatusPending,
		models.VerificationStatusDeclined,
		models.VerificationStatusApproved,
	}

	for _, status := range sequence {
		result, err := UpdateUserVerificationStatus(db, super, target.ID, string(status))
		if err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
		if !result.Success || result.Status != status {
			t.Errorf("unexpected result %+v", result)
		}

		var reloaded models.User
		db.First(&reloaded, "id = ?", target.ID)
		if reloaded.VerificationStatus != status {
			t.Errorf("stored status %q, want %q", reloaded.VerificationStatus, status)
		}
	}
}

func TestSetUserRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateTestUser(t, db, "u@example.com", models.VerificationStatusApproved, models.RoleUser)

	updated, err := SetUserRole(db, user.ID, models.RoleSuperAdmin)
	if err != nil {
		t.Fatalf("SetUserRole failed: %v", err)
	}
	if updated.Role != models.RoleSuperAdmin {
		t.Errorf("role = %q", updated.Role)
	}

	var reloaded models.User
	db.First(&reloaded, "id = ?", user.ID)
	if reloaded.Role != models.RoleSuperAdmin {
		t.Errorf("stored role = %q", reloaded.Role)
	}

	if _, err := SetUserRole(db, user.ID, models.RoleUnset); !types.IsKind(err, types.TypeValidation) {
		t.Errorf("unset role should be rejected, got %v", err)
	}
	if _, err := SetUserRole(db, "nope", models.RoleAdmin); !types.IsKind(err, types.TypeTargetNotFound) {
		t.Errorf("unknown user should be TargetNotFound, got %v", err)
	}
}

func TestListUsersByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateTestUser(t, db, "a@example.com", models.VerificationStatusPending, models.RoleUser)
	testutil.CreateTestUser(t, db, "b@example.com", models.VerificationStatusApproved, models.RoleUser)

	all, err := ListUsersByStatus(db, models.VerificationStatusUnset)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 users, got %d, %v", len(all), err)
	}
	pending, err := ListUsersByStatus(db, models.VerificationStatusPending)
	if err != nil || len(pending) != 1 || pending[0].Email != "a@example.com" {
		t.Errorf("unexpected pending users %+v, %v", pending, err)
	}
}
