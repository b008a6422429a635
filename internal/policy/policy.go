// policy.go
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

// Package policy holds the pure authorization decisions. Every function takes
// the resolved caller explicitly; a nil caller is anonymous and fails closed.
package policy

import (
	"fmt"

	"github.com/localnerve/jam-build-testsheets/internal/models"
)

// GuardResult is the outcome of a guard that can explain a refusal
type GuardResult struct {
	Allowed bool
	Reason  string
}

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// CanViewFullDirectory is true iff the caller's verification status is approved.
// Role is deliberately not consulted.
func CanViewFullDirectory(caller *models.User) bool {
	return caller != nil && caller.VerificationStatus == models.VerificationStatusApproved
}

// CanTransitionVerificationStatus is true iff the caller is a super_admin
func CanTransitionVerificationStatus(caller *models.User) bool {
	return caller != nil && caller.Role == models.RoleSuperAdmin
}

// CanCreateSheet is true for approved callers
func CanCreateSheet(caller *models.User) bool {
	return CanViewFullDirectory(caller)
}

// IsOwner compares normalized ids of the sheet owner and the caller
func IsOwner(sheet *models.Sheet, caller *models.User) bool {
	if sheet == nil || caller == nil {
		return false
	}
	ownerID, ok := models.NormalizeID(sheet.OwnerID)
	if !ok {
		return false
	}
	callerID, ok := models.NormalizeID(caller.ID)
	return ok && ownerID == callerID
}

// CanManageSharing gates listing and answering a sheet's permission requests
func CanManageSharing(sheet *models.Sheet, caller *models.User) bool {
	return IsOwner(sheet, caller)
}

// CanRequestAccess decides whether the caller may file an access request.
// An unset requestable/isPublic flag counts as false.
func CanRequestAccess(sheet *models.Sheet, caller *models.User) GuardResult {
	if caller == nil {
		return deny("authentication required to request access")
	}
	if sheet == nil {
		return deny("sheet not found")
	}
	if IsOwner(sheet, caller) {
		return deny("owner already has access to sheet %s", sheet.ID)
	}
	if !isSet(sheet.Requestable) && !isSet(sheet.IsPublic) {
		return deny("sheet %s does not accept access requests", sheet.ID)
	}
	return allow()
}

// CanEditSheet allows the owner, or a caller holding an approved editor permission.
// perm is the caller's permission row for the sheet, or nil.
func CanEditSheet(sheet *models.Sheet, caller *models.User, perm *models.Permission) GuardResult {
	if caller == nil {
		return deny("authentication required to edit sheet")
	}
	if sheet == nil {
		return deny("sheet not found")
	}
	if IsOwner(sheet, caller) {
		return allow()
	}
	if perm == nil || perm.UserID != caller.ID || perm.SheetID != sheet.ID {
		return deny("no permission on sheet %s", sheet.ID)
	}
	if perm.Status != models.PermissionStatusApproved {
		return deny("permission on sheet %s is %s", sheet.ID, perm.Status)
	}
	if perm.Level != models.PermissionLevelEditor {
		return deny("%s permission cannot edit sheet %s", perm.Level, sheet.ID)
	}
	return allow()
}

func isSet(b *bool) bool {
	return b != nil && *b
}
