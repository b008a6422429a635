// routes.go
//
// A test-case sheet tracking service with role and status gated sharing
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-testsheets.
// jam-build-testsheets is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-testsheets is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-testsheets.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-testsheets/internal/config"
	"github.com/localnerve/jam-build-testsheets/internal/middleware"
	"gorm.io/gorm"
)

// Deps are the collaborators the routes need
type Deps struct {
	DB       *gorm.DB
	Resolver middleware.CallerResolver
	Config   *config.Config
}

// RegisterRoutes mounts /health and the /api group on app
func RegisterRoutes(app *fiber.App, deps Deps) {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	health := &HealthHandler{DB: deps.DB, Config: cfg}
	app.Get("/health", health.Health)

	users := &UserHandler{DB: deps.DB}
	sheets := &SheetHandler{DB: deps.DB, ListLimit: cfg.SheetListLimit}
	testCases := &TestCaseHandler{DB: deps.DB}
	permissions := &PermissionHandler{DB: deps.DB}

	api := app.Group("/api")
	api.Use(middleware.Identity(deps.Resolver, cfg.SessionCookie))

	// Users. /me is registered ahead of /:id routes.
	api.Get("/users", users.ListUsers)
	api.Get("/users/me", users.GetMyProfile)
	api.Patch("/users/:id/verification-status", users.UpdateVerificationStatus)

	// Sheets
	api.Get("/sheets", sheets.ListSheets)
	api.Post("/sheets", sheets.CreateSheet)
	api.Get("/sheets/:id", sheets.GetSheet)
	api.Post("/sheets/:id/opened", sheets.MarkOpened)

	// Sharing
	api.Get("/sheets/:id/permissions", permissions.ListPermissions)
	api.Post("/sheets/:id/permissions", permissions.RequestAccess)
	api.Patch("/permissions/:id", permissions.Respond)

	// Test cases
	api.Get("/sheets/:id/testcases", testCases.GetTestCasesForSheet)
	api.Post("/sheets/:id/testcases", testCases.CreateTestCase)
	api.Get("/sheets/:id/testcases/functionality", testCases.ListFunctionalityTestCases)
	api.Patch("/testcases/functionality/:id/row-height", testCases.UpdateFunctionalityRowHeight)
	api.Patch("/testcases/alt-text-aria-label/:id/row-height", testCases.UpdateAltTextAriaLabelRowHeight)
}
