// user.go
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

// User is an account known to the service. Credentials and sessions live in
// the Authorizer service; AuthSubject links the two and is never serialized.
type User struct {
	ID                    string             `gorm:"type:char(36);primaryKey" json:"id"`
	AuthSubject           *string            `gorm:"size:64;uniqueIndex" json:"-"`
	Name                  string             `gorm:"size:255" json:"name,omitempty"`
	Image                 string             `gorm:"size:1024" json:"image,omitempty"`
	Email                 string             `gorm:"size:255;index" json:"email,omitempty"`
	EmailVerificationTime *time.Time         `json:"emailVerificationTime,omitempty"`
	Phone                 string             `gorm:"size:64;index" json:"phone,omitempty"`
	PhoneVerificationTime *time.Time         `json:"phoneVerificationTime,omitempty"`
	IsAnonymous           *bool              `json:"isAnonymous,omitempty"`
	VerificationStatus    VerificationStatus `gorm:"size:16;not null;default:pending" json:"verificationStatus"`
	Role                  Role               `gorm:"size:16" json:"role,omitempty"`
	CreatedAt             time.Time          `json:"creationTime"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
