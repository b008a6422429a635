// db.go
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

// Package testutil provides database fixtures and HTTP assertions for tests
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory database with every table migrated
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestUser inserts a user with the given status and role
func CreateTestUser(t *testing.T, db *gorm.DB, email string, status models.VerificationStatus, role models.Role) *models.User {
	t.Helper()
	subject := "subject-" + email
	user := &models.User{
		AuthSubject:        &subject,
		Name:               email,
		Email:              email,
		VerificationStatus: status,
		Role:               role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

// CreateTestSheet inserts a sheet owned by owner
func CreateTestSheet(t *testing.T, db *gorm.DB, owner *models.User, name string, testCaseType models.TestCaseType) *models.Sheet {
	t.Helper()
	requestable := true
	sheet := &models.Sheet{
		Name:         name,
		Type:         models.SheetTypeSheet,
		OwnerID:      owner.ID,
		TestCaseType: testCaseType,
		Requestable:  &requestable,
		LastOpenedAt: time.Now().UTC(),
	}
	if err := db.Create(sheet).Error; err != nil {
		t.Fatalf("Failed to create sheet %s: %v", name, err)
	}
	return sheet
}

// CreateTestPermission inserts a permission row
func CreateTestPermission(t *testing.T, db *gorm.DB, sheet *models.Sheet, user *models.User, level models.PermissionLevel, status models.PermissionStatus) *models.Permission {
	t.Helper()
	perm := &models.Permission{
		SheetID: sheet.ID,
		UserID:  user.ID,
		Level:   level,
		Status:  status,
	}
	if err := db.Create(perm).Error; err != nil {
		t.Fatalf("Failed to create permission: %v", err)
	}
	return perm
}

// CreateTestFunctionalityCase inserts a functionality test case on sheet
func CreateTestFunctionalityCase(t *testing.T, db *gorm.DB, sheet *models.Sheet, creator *models.User, title string) *models.FunctionalityTestCase {
	t.Helper()
	tc := &models.FunctionalityTestCase{
		SheetID:         sheet.ID,
		Title:           title,
		Module:          "Login",
		Level:           models.TestLevelHigh,
		Scenario:        models.ScenarioHappyPath,
		Steps:           "1. Open the page",
		ExpectedResults: "The page opens",
		Status:          models.TestStatusNotRun,
		CreatedBy:       creator.ID,
		RowHeight:       models.DefaultRowHeight,
	}
	if err := db.Create(tc).Error; err != nil {
		t.Fatalf("Failed to create functionality test case: %v", err)
	}
	return tc
}

// CreateTestAltTextCase inserts an alt text test case on sheet
func CreateTestAltTextCase(t *testing.T, db *gorm.DB, sheet *models.Sheet, creator *models.User, module string) *models.AltTextAriaLabelTestCase {
	t.Helper()
	tc := &models.AltTextAriaLabelTestCase{
		SheetID:          sheet.ID,
		Persona:          models.PersonaUser,
		Module:           module,
		PageSection:      "Header",
		AltTextAriaLabel: "Company logo",
		SEImplementation: models.SEImplementationNotYet,
		TestingStatus:    models.TestStatusNotRun,
		CreatedBy:        creator.ID,
		RowHeight:        models.DefaultRowHeight,
	}
	if err := db.Create(tc).Error; err != nil {
		t.Fatalf("Failed to create alt text test case: %v", err)
	}
	return tc
}
