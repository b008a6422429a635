// permissions.go
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
	"strings"
	"time"

	"github.com/localnerve/jam-build-testsheets/internal/metrics"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/policy"
	"github.com/localnerve/jam-build-testsheets/internal/types"
	"gorm.io/gorm"
)

const maxPermissionMessageLength = 1024

// AccessRequestInput is the body of an access request
type AccessRequestInput struct {
	Level   models.PermissionLevel `json:"level"`
	Message *string                `json:"message,omitempty"`
}

// RequestSheetAccess files or refreshes the caller's access request for a sheet.
// There is at most one row per (sheet, user): a pending row is updated in
// place, a declined row is reopened, and an approved row is a Conflict.
func RequestSheetAccess(db *gorm.DB, caller *models.User, rawSheetID string, input AccessRequestInput) (*models.Permission, error) {
	if caller == nil {
		return nil, types.AuthenticationRequired("Not authenticated")
	}
	if !input.Level.Valid() {
		return nil, types.Validation(fmt.Sprintf("Invalid permission level %q", input.Level))
	}
	message := normalizeMessage(input.Message)
	if message != nil && len(*message) > maxPermissionMessageLength {
		return nil, types.Validation(fmt.Sprintf("Message exceeds %d characters", maxPermissionMessageLength))
	}

	sheet, err := requireSheet(db, rawSheetID)
	if err != nil {
		return nil, err
	}
	if policy.IsOwner(sheet, caller) {
		return nil, types.Validation("Owners already have access to their sheets")
	}
	if guard := policy.CanRequestAccess(sheet, caller); !guard.Allowed {
		return nil, types.AccessDenied(guard.Reason)
	}

	var (
		perm    models.Permission
		outcome string
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		findErr := quiet(tx).Where("sheet_id = ? AND user_id = ?", sheet.ID, caller.ID).First(&perm).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			perm = models.Permission{
				SheetID: sheet.ID,
				UserID:  caller.ID,
				Level:   input.Level,
				Status:  models.PermissionStatusPending,
				Message: message,
			}
			outcome = metrics.OutcomeRequested
			return tx.Create(&perm).Error
		}
		if findErr != nil {
			return findErr
		}

		switch perm.Status {
		case models.PermissionStatusApproved:
			return types.Conflict(fmt.Sprintf("Access to sheet %s is already approved", sheet.ID))
		case models.PermissionStatusDeclined:
			outcome = metrics.OutcomeReopened
		default:
			outcome = metrics.OutcomeUpdated
		}

		perm.Level = input.Level
		perm.Status = models.PermissionStatusPending
		perm.Message = message
		return tx.Model(&perm).Updates(map[string]interface{}{
			"level":      perm.Level,
			"status":     perm.Status,
			"message":    perm.Message,
			"updated_at": time.Now().UTC(),
		}).Error
	})
	if err != nil {
		var customErr *types.CustomError
		if errors.As(err, &customErr) {
			return nil, customErr
		}
		return nil, fmt.Errorf("failed to record access request: %w", err)
	}

	metrics.PermissionEvent(outcome)
	return &perm, nil
}

func normalizeMessage(message *string) *string {
	if message == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*message)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// PermissionDetail is a permission row as shown to the sheet owner
type PermissionDetail struct {
	PermissionSummary
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListSheetPermissions returns every permission row on a sheet. Owner only.
func ListSheetPermissions(db *gorm.DB, caller *models.User, rawSheetID string) ([]PermissionDetail, error) {
	if caller == nil {
		return nil, types.AuthenticationRequired("Not authenticated")
	}

	sheet, err := requireSheet(db, rawSheetID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageSharing(sheet, caller) {
		return nil, types.AccessDenied("Only the sheet owner can view its permissions")
	}

	var perms []models.Permission
	if err := db.Where("sheet_id = ?", sheet.ID).Order("created_at ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	userIDs := make([]string, 0, len(perms))
	for _, p := range perms {
		userIDs = append(userIDs, p.UserID)
	}
	emails, err := emailsByID(db, userIDs)
	if err != nil {
		return nil, err
	}

	details := make([]PermissionDetail, 0, len(perms))
	for _, p := range perms {
		email, ok := emails[p.UserID]
		if !ok {
			email = UnknownUserEmail
		}
		details = append(details, PermissionDetail{
			PermissionSummary: PermissionSummary{
				ID:        p.ID,
				UserID:    p.UserID,
				UserEmail: email,
				Level:     p.Level,
				Status:    p.Status,
				Message:   p.Message,
			},
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return details, nil
}

// RespondToPermission approves or declines a permission request. Owner only.
// Approval marks the sheet shared in the same transaction.
func RespondToPermission(db *gorm.DB, caller *models.User, rawPermissionID string, status models.PermissionStatus) (*models.Permission, error) {
	if status != models.PermissionStatusApproved && status != models.PermissionStatusDeclined {
		return nil, types.Validation(fmt.Sprintf("Invalid response status %q", status))
	}
	if caller == nil {
		return nil, types.AuthenticationRequired("Not authenticated")
	}

	id, ok := models.NormalizeID(rawPermissionID)
	if !ok {
		return nil, types.InvalidID("Invalid permission id")
	}

	var perm models.Permission
	err := quiet(db).Where("id = ?", id).First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("Permission not found")
	}
	if err != nil {
		return nil, err
	}

	sheet, err := requireSheet(db, perm.SheetID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageSharing(sheet, caller) {
		return nil, types.AccessDenied("Only the sheet owner can respond to permission requests")
	}

	now := time.Now().UTC()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&perm).Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}
		if status == models.PermissionStatusApproved && !sheet.Shared {
			return tx.Model(sheet).Updates(map[string]interface{}{
				"shared":     true,
				"updated_at": now,
			}).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to respond to permission: %w", err)
	}

	perm.Status = status
	perm.UpdatedAt = now
	if status == models.PermissionStatusApproved {
		metrics.PermissionEvent(metrics.OutcomeApproved)
	} else {
		metrics.PermissionEvent(metrics.OutcomeDeclined)
	}
	return &perm, nil
}

// findCallerPermission returns the caller's permission row for a sheet, or nil
func findCallerPermission(db *gorm.DB, sheet *models.Sheet, caller *models.User) (*models.Permission, error) {
	if caller == nil {
		return nil, nil
	}

	var perm models.Permission
	err := quiet(db).Where("sheet_id = ? AND user_id = ?", sheet.ID, caller.ID).First(&perm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &perm, nil
}
