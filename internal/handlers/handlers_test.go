package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-testsheets/internal/config"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/services"
	"github.com/localnerve/jam-build-testsheets/internal/testutil"
	"github.com/localnerve/jam-build-testsheets/internal/types"
	"github.com/localnerve/jam-build-testsheets/internal/utils"
	"gorm.io/gorm"
)

const testCookie = "cookie_session"

// idResolver treats the session token as a user id
type idResolver struct {
	db *gorm.DB
}

func (r idResolver) Resolve(_ context.Context, token string) (*models.User, error) {
	return services.FindUser(r.db, token)
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	RegisterRoutes(app, Deps{
		DB:       db,
		Resolver: idResolver{db: db},
		Config:   &config.Config{SessionCookie: testCookie, SheetListLimit: 100},
	})
	return app, db
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string, user *models.User) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: user.ID})
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func assertErrorEnvelope(t *testing.T, resp *http.Response, status int, errorType string) {
	t.Helper()
	testutil.AssertStatus(t, resp, status)
	var envelope utils.ErrorResponseStruct
	testutil.ParseJSON(t, resp, &envelope)
	if envelope.Ok {
		t.Error("ok must be false in an error envelope")
	}
	if envelope.Status != status {
		t.Errorf("envelope status = %d, want %d", envelope.Status, status)
	}
	if envelope.Type != errorType {
		t.Errorf("envelope type = %q, want %q", envelope.Type, errorType)
	}
	if envelope.URL == "" || envelope.Timestamp == "" {
		t.Errorf("envelope missing url or timestamp: %+v", envelope)
	}
}

func TestVerificationScenario(t *testing.T) {
	app, db := setupApp(t)
	a := testutil.CreateTestUser(t, db, "a@example.com", models.VerificationStatusPending, models.RoleUser)
	b := testutil.CreateTestUser(t, db, "b@example.com", models.VerificationStatusApproved, models.RoleUser)
	c := testutil.CreateTestUser(t, db, "c@example.com", models.VerificationStatusApproved, models.RoleSuperAdmin)

	// A is pending and sees the public subset
	resp := doRequest(t, app, "GET", "/api/users", "", a)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	if got := resp.Header.Get("X-Total-Count"); got != "3" {
		t.Errorf("X-Total-Count = %q, want 3", got)
	}
	var entries []map[string]interface{}
	testutil.ParseJSON(t, resp, &entries)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if _, ok := entry["updatedAt"]; ok {
			t.Errorf("pending caller must not see updatedAt: %v", entry)
		}
	}

	// B is approved and sees full records
	resp = doRequest(t, app, "GET", "/api/users", "", b)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	entries = nil
	testutil.ParseJSON(t, resp, &entries)
	for _, entry := range entries {
		if _, ok := entry["updatedAt"]; !ok {
			t.Errorf("approved caller must see updatedAt: %v", entry)
		}
	}

	// B cannot approve A
	resp = doRequest(t, app, "PATCH", "/api/users/"+a.ID+"/verification-status", `{"newStatus":"approved"}`, b)
	assertErrorEnvelope(t, resp, fiber.StatusForbidden, types.TypeAccessDenied)

	// C can
	resp = doRequest(t, app, "PATCH", "/api/users/"+a.ID+"/verification-status", `{"newStatus":"approved"}`, c)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var result services.VerificationStatusResult
	testutil.ParseJSON(t, resp, &result)
	if !result.Success || result.Status != models.VerificationStatusApproved {
		t.Errorf("unexpected result: %+v", result)
	}

	// A now sees full records
	resp = doRequest(t, app, "GET", "/api/users", "", a)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	entries = nil
	testutil.ParseJSON(t, resp, &entries)
	for _, entry := range entries {
		if _, ok := entry["updatedAt"]; !ok {
			t.Errorf("approved A must see updatedAt: %v", entry)
		}
	}
}

func TestVerificationStatusErrors(t *testing.T) {
	app, db := setupApp(t)
	c := testutil.CreateTestUser(t, db, "c@example.com", models.VerificationStatusApproved, models.RoleSuperAdmin)

	resp := doRequest(t, app, "PATCH", "/api/users/"+c.ID+"/verification-status", `{"newStatus":"approved"}`, nil)
	assertErrorEnvelope(t, resp, fiber.StatusUnauthorized, types.TypeAuthenticationRequired)

	resp = doRequest(t, app, "PATCH", "/api/users/"+c.ID+"/verification-status", `{"newStatus":"banned"}`, c)
	assertErrorEnvelope(t, resp, fiber.StatusBadRequest, types.TypeValidation)

	resp = doRequest(t, app, "PATCH", "/api/users/8d0a5a8e-3f8e-4bfa-9a4f-5b0a3f0d1c22/verification-status", `{"newStatus":"declined"}`, c)
	assertErrorEnvelope(t, resp, fiber.StatusNotFound, types.TypeTargetNotFound)
}

func TestUserListFilters(t *testing.T) {
	app, db := setupApp(t)
	b := testutil.CreateTestUser(t, db, "bob@example.com", models.VerificationStatusApproved, models.RoleUser)
	testutil.CreateTestUser(t, db, "alice@example.com", models.VerificationStatusPending, models.RoleUser)
	testutil.CreateTestUser(t, db, "carol@example.com", models.VerificationStatusPending, models.RoleUser)

	resp := doRequest(t, app, "GET", "/api/users?status=pending&pageSize=1&page=2", "", b)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	if got := resp.Header.Get("X-Total-Count"); got != "2" {
		t.Errorf("X-Total-Count = %q, want 2", got)
	}
	var entries []map[string]interface{}
	testutil.ParseJSON(t, resp, &entries)
	if len(entries) != 1 {
		t.Fatalf("expected one entry on page 2, got %d", len(entries))
	}

	resp = doRequest(t, app, "GET", "/api/users?search=ALICE", "", nil)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	entries = nil
	testutil.ParseJSON(t, resp, &entries)
	if len(entries) != 1 || entries[0]["email"] != "alice@example.com" {
		t.Errorf("unexpected search result: %v", entries)
	}
}

func TestGetMyProfile(t *testing.T) {
	app, db := setupApp(t)
	a := testutil.CreateTestUser(t, db, "a@example.com", models.VerificationStatusPending, models.RoleUser)

	resp := doRequest(t, app, "GET", "/api/users/me", "", nil)
	testutil.AssertStatus(t, resp, fiber.StatusNoContent)
	testutil.AssertNoContent(t, resp)

	resp = doRequest(t, app, "GET", "/api/users/me", "", a)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var profile map[string]interface{}
	testutil.ParseJSON(t, resp, &profile)
	if profile["id"] != a.ID {
		t.Errorf("profile id = %v, want %s", profile["id"], a.ID)
	}
}

func TestSheetRoutes(t *testing.T) {
	app, db := setupApp(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", models.VerificationStatusApproved, models.RoleUser)
	pending := testutil.CreateTestUser(t, db, "pending@example.com", models.VerificationStatusPending, models.RoleUser)

	resp := doRequest(t, app, "POST", "/api/sheets", `{"name":"Checkout","testCaseType":"functionality"}`, pending)
	assertErrorEnvelope(t, resp, fiber.StatusForbidden, types.TypeAccessDenied)

	resp = doRequest(t, app, "POST", "/api/sheets", `{"name":"Checkout","testCaseType":"functionality"}`, owner)
	testutil.AssertStatus(t, resp, fiber.StatusCreated)
	var sheet models.Sheet
	testutil.ParseJSON(t, resp, &sheet)
	if sheet.OwnerID != owner.ID || sheet.Type != models.SheetTypeSheet {
		t.Errorf("unexpected sheet: %+v", sheet)
	}

	resp = doRequest(t, app, "GET", "/api/sheets/"+sheet.ID, "", nil)
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	for _, id := range []string{"not-a-uuid", "3b8e4c1a-7d4f-4c8e-9a1b-2f6d8e0c4a55"} {
		resp = doRequest(t, app, "GET", "/api/sheets/"+id, "", nil)
		assertErrorEnvelope(t, resp, fiber.StatusNotFound, types.TypeNotFound)
		resp = doRequest(t, app, "GET", "/api/sheets/"+id+"/testcases", "", nil)
		assertErrorEnvelope(t, resp, fiber.StatusNotFound, types.TypeNotFound)
	}

	resp = doRequest(t, app, "POST", "/api/sheets/"+sheet.ID+"/opened", "", nil)
	assertErrorEnvelope(t, resp, fiber.StatusUnauthorized, types.TypeAuthenticationRequired)
	resp = doRequest(t, app, "POST", "/api/sheets/"+sheet.ID+"/opened", "", pending)
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	resp = doRequest(t, app, "GET", "/api/sheets", "", owner)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var listings []map[string]interface{}
	testutil.ParseJSON(t, resp, &listings)
	if len(listings) != 1 {
		t.Fatalf("expected one listing, got %d", len(listings))
	}
	if listings[0]["isOwnedByMe"] != true || listings[0]["ownerName"] != "owner@example.com" {
		t.Errorf("unexpected listing: %v", listings[0])
	}
	if listings[0]["recency"] != string(services.RecencyToday) {
		t.Errorf("recency = %v, want today", listings[0]["recency"])
	}
}

func TestSharingRoutes(t *testing.T) {
	app, db := setupApp(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", models.VerificationStatusApproved, models.RoleUser)
	other := testutil.CreateTestUser(t, db, "other@example.com", models.VerificationStatusPending, models.RoleUser)
	sheet := testutil.CreateTestSheet(t, db, owner, "Shared", models.TestCaseTypeFunctionality)

	resp := doRequest(t, app, "POST", "/api/sheets/"+sheet.ID+"/permissions", `{"level":"editor"}`, owner)
	assertErrorEnvelope(t, resp, fiber.StatusBadRequest, types.TypeValidation)

	resp = doRequest(t, app, "POST", "/api/sheets/"+sheet.ID+"/permissions", `{"level":"editor","message":"please"}`, other)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var perm models.Permission
	testutil.ParseJSON(t, resp, &perm)
	if perm.Status != models.PermissionStatusPending {
		t.Errorf("new request status = %s, want pending", perm.Status)
	}

	resp = doRequest(t, app, "GET", "/api/sheets/"+sheet.ID+"/permissions", "", other)
	assertErrorEnvelope(t, resp, fiber.StatusForbidden, types.TypeAccessDenied)

	resp = doRequest(t, app, "GET", "/api/sheets/"+sheet.ID+"/permissions", "", owner)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var details []services.PermissionDetail
	testutil.ParseJSON(t, resp, &details)
	if len(details) != 1 || details[0].UserEmail != "other@example.com" {
		t.Fatalf("unexpected details: %+v", details)
	}

	resp = doRequest(t, app, "PATCH", "/api/permissions/"+perm.ID, `{"status":"pending"}`, owner)
	assertErrorEnvelope(t, resp, fiber.StatusBadRequest, types.TypeValidation)

	resp = doRequest(t, app, "PATCH", "/api/permissions/"+perm.ID, `{"status":"approved"}`, owner)
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	var reloaded models.Sheet
	if err := db.First(&reloaded, "id = ?", sheet.ID).Error; err != nil {
		t.Fatalf("reload sheet: %v", err)
	}
	if !reloaded.Shared {
		t.Error("approving a request must mark the sheet shared")
	}

	resp = doRequest(t, app, "POST", "/api/sheets/"+sheet.ID+"/permissions", `{"level":"viewer"}`, other)
	assertErrorEnvelope(t, resp, fiber.StatusConflict, types.TypeConflict)

	// An approved editor may add test cases
	body := `{"title":"Sign in","level":"High","scenario":"Happy Path","steps":"1. Sign in","expectedResults":"Signed in"}`
	resp = doRequest(t, app, "POST", "/api/sheets/"+sheet.ID+"/testcases", body, other)
	testutil.AssertStatus(t, resp, fiber.StatusCreated)
	var created map[string]interface{}
	testutil.ParseJSON(t, resp, &created)
	if created["status"] != string(models.TestStatusNotRun) {
		t.Errorf("status default = %v, want %s", created["status"], models.TestStatusNotRun)
	}
	if created["rowHeight"] != float64(models.DefaultRowHeight) {
		t.Errorf("rowHeight default = %v, want %d", created["rowHeight"], models.DefaultRowHeight)
	}
}

func TestTestCaseRoutes(t *testing.T) {
	app, db := setupApp(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", models.VerificationStatusApproved, models.RoleUser)
	sheet := testutil.CreateTestSheet(t, db, owner, "Functional", models.TestCaseTypeFunctionality)
	tc := testutil.CreateTestFunctionalityCase(t, db, sheet, owner, "Sign in")
	altSheet := testutil.CreateTestSheet(t, db, owner, "Alt", models.TestCaseTypeAltTextAriaLabel)
	alt := testutil.CreateTestAltTextCase(t, db, altSheet, owner, "Header")

	resp := doRequest(t, app, "GET", "/api/sheets/"+altSheet.ID+"/testcases", "", nil)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var payload struct {
		TestCaseType string                   `json:"testCaseType"`
		TestCases    []map[string]interface{} `json:"testCases"`
	}
	testutil.ParseJSON(t, resp, &payload)
	if payload.TestCaseType != string(models.TestCaseTypeAltTextAriaLabel) || len(payload.TestCases) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if _, ok := payload.TestCases[0]["persona"]; !ok {
		t.Errorf("alt text case missing persona: %v", payload.TestCases[0])
	}

	resp = doRequest(t, app, "GET", "/api/sheets/"+sheet.ID+"/testcases/functionality", "", nil)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var listing map[string]interface{}
	testutil.ParseJSON(t, resp, &listing)
	if listing["viewer"] != nil {
		t.Errorf("anonymous viewer = %v, want null", listing["viewer"])
	}

	resp = doRequest(t, app, "GET", "/api/sheets/not-a-uuid/testcases/functionality", "", owner)
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	tests := []struct {
		name   string
		path   string
		body   string
		user   *models.User
		status int
		want   float64
	}{
		{"clamped low", "/api/testcases/functionality/" + tc.ID + "/row-height", `{"rowHeight":5}`, owner, fiber.StatusOK, 20},
		{"clamped high", "/api/testcases/functionality/" + tc.ID + "/row-height", `{"rowHeight":9000}`, owner, fiber.StatusOK, 500},
		{"fractional string", "/api/testcases/alt-text-aria-label/" + alt.ID + "/row-height", `{"rowHeight":"64.6"}`, owner, fiber.StatusOK, 64.6},
		{"anonymous", "/api/testcases/functionality/" + tc.ID + "/row-height", `{"rowHeight":60}`, nil, fiber.StatusUnauthorized, 0},
		{"anonymous malformed body", "/api/testcases/alt-text-aria-label/" + alt.ID + "/row-height", `{"rowHeight":`, nil, fiber.StatusUnauthorized, 0},
		{"malformed body", "/api/testcases/functionality/" + tc.ID + "/row-height", `{"rowHeight":`, owner, fiber.StatusBadRequest, 0},
		{"invalid id", "/api/testcases/functionality/nope/row-height", `{"rowHeight":60}`, owner, fiber.StatusBadRequest, 0},
		{"missing height", "/api/testcases/functionality/" + tc.ID + "/row-height", `{}`, owner, fiber.StatusBadRequest, 0},
		{"unknown case", "/api/testcases/alt-text-aria-label/" + tc.ID + "/row-height", `{"rowHeight":60}`, owner, fiber.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, "PATCH", tt.path, tt.body, tt.user)
			testutil.AssertStatus(t, resp, tt.status)
			if tt.status != fiber.StatusOK {
				return
			}
			var result services.RowHeightResult
			testutil.ParseJSON(t, resp, &result)
			if !result.Success || result.NewHeight != tt.want {
				t.Errorf("result = %+v, want height %v", result, tt.want)
			}
		})
	}
}

func TestHealthRoute(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, "GET", "/health", "", nil)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	var result services.HealthCheckResult
	testutil.ParseJSON(t, resp, &result)
	if result.Status != "healthy" || result.Authorizer != "disabled" {
		t.Errorf("unexpected health: %+v", result)
	}
}
