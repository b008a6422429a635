// sheet.go
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

package models

import (
	"time"
)

// Sheet is a named collection of test cases owned by one user.
// TestCaseType is fixed when the sheet is created.
type Sheet struct {
	ID           string       `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string       `gorm:"size:255;not null" json:"name"`
	Type         SheetType    `gorm:"size:16;not null;default:sheet" json:"type"`
	OwnerID      string       `gorm:"type:char(36);not null;index" json:"owner"`
	LastOpenedAt time.Time    `json:"lastOpenedAt"`
	CreatedAt    time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	Shared       bool         `gorm:"not null;default:false" json:"shared"`
	IsPublic     *bool        `json:"isPublic,omitempty"`
	Requestable  *bool        `json:"requestable,omitempty"`
	TestCaseType TestCaseType `gorm:"size:32;not null" json:"testCaseType"`
}

// TableName overrides the table name for Sheet
func (Sheet) TableName() string {
	return "sheets"
}

// Permission is one user's access grant or request for one sheet.
// (SheetID, UserID) is unique.
type Permission struct {
	ID        string           `gorm:"type:char(36);primaryKey" json:"id"`
	SheetID   string           `gorm:"type:char(36);not null;uniqueIndex:idx_permissions_sheet_user" json:"sheetId"`
	UserID    string           `gorm:"type:char(36);not null;uniqueIndex:idx_permissions_sheet_user;index" json:"userId"`
	Level     PermissionLevel  `gorm:"size:16;not null" json:"level"`
	Status    PermissionStatus `gorm:"size:16;not null;default:pending" json:"status"`
	Message   *string          `gorm:"size:1024" json:"message,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TableName overrides the table name for Permission
func (Permission) TableName() string {
	return "permissions"
}
