// users.go
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

package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/jam-build-testsheets/internal/directory"
	"github.com/localnerve/jam-build-testsheets/internal/metrics"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/policy"
	"github.com/localnerve/jam-build-testsheets/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// quiet silences gorm logging for read paths that expect misses
func quiet(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)})
}

// FindUser loads a user by raw id, nil when the id is malformed or unknown
func FindUser(db *gorm.DB, rawID string) (*models.User, error) {
	id, ok := models.NormalizeID(rawID)
	if !ok {
		return nil, nil
	}

	var user models.User
	err := quiet(db).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMyProfile returns the caller's current record, nil when anonymous or gone
func GetMyProfile(db *gorm.DB, caller *models.User) (*models.User, error) {
	if caller == nil {
		return nil, nil
	}
	return FindUser(db, caller.ID)
}

// UserList is one page of the projected directory
type UserList struct {
	Users []directory.Entry `json:"users"`
	Total int               `json:"total"`
	Full  bool              `json:"full"`
}

// ListUsers projects every user for caller, full or redacted, then applies q
func ListUsers(db *gorm.DB, caller *models.User, q directory.Query) (*UserList, error) {
	var users []models.User
	if err := db.Order("created_at ASC").Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	full := policy.CanViewFullDirectory(caller)
	entries, total := directory.Apply(directory.Project(users, full), q)

	return &UserList{Users: entries, Total: total, Full: full}, nil
}

// VerificationStatusResult acknowledges a verification status change
type VerificationStatusResult struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Status  models.VerificationStatus `json:"status"`
}

// UpdateUserVerificationStatus sets the target's verification status.
// Any status may move to any other. Checks run in order: status value,
// caller present, caller profile present, caller is super_admin, target present.
func UpdateUserVerificationStatus(db *gorm.DB, caller *models.User, targetID string, newStatus string) (*VerificationStatusResult, error) {
	status := models.VerificationStatus(newStatus)
	if !status.Valid() {
		return nil, types.Validation(fmt.Sprintf("Invalid verification status %q", newStatus))
	}

	if caller == nil {
		return nil, types.AuthenticationRequired("Not authenticated")
	}

	profile, err := GetMyProfile(db, caller)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, types.ProfileNotFound("User profile not found")
	}

	if !policy.CanTransitionVerificationStatus(profile) {
		return nil, types.AccessDenied("Only super admins can update verification status")
	}

	target, err := FindUser(db, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, types.TargetNotFound("Target user not found")
	}

	err = db.Model(&models.User{}).Where("id = ?", target.ID).Updates(map[string]interface{}{
		"verification_status": status,
		"updated_at":          time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update verification status: %w", err)
	}

	metrics.VerificationStatusUpdated(string(status))

	return &VerificationStatusResult{
		Success: true,
		Message: fmt.Sprintf("User verification status updated to %s", status),
		Status:  status,
	}, nil
}

// SetUserRole changes a user's role. It is an operator action with no HTTP route.
func SetUserRole(db *gorm.DB, targetID string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, types.Validation(fmt.Sprintf("Invalid role %q", role))
	}

	target, err := FindUser(db, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, types.TargetNotFound("Target user not found")
	}

	if err := db.Model(target).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	target.Role = role
	return target, nil
}

// ListUsersByStatus returns raw user records for operator tooling
func ListUsersByStatus(db *gorm.DB, status models.VerificationStatus) ([]models.User, error) {
	query := db.Order("created_at ASC")
	if status != models.VerificationStatusUnset {
		query = query.Where("verification_status = ?", status)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
