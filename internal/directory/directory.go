// directory.go
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

// Package directory projects the user set for a caller. The projection is
// all-or-nothing: every entry is full or every entry is public.
package directory

import (
	"strings"
	"time"

	"github.com/localnerve/jam-build-testsheets/internal/models"
)

// PublicUser is the field set every caller may see
type PublicUser struct {
	ID                 string                    `json:"id"`
	CreationTime       time.Time                 `json:"creationTime"`
	Name               string                    `json:"name,omitempty"`
	Email              string                    `json:"email,omitempty"`
	Phone              string                    `json:"phone,omitempty"`
	Image              string                    `json:"image,omitempty"`
	VerificationStatus models.VerificationStatus `json:"verificationStatus"`
	Role               models.Role               `json:"role,omitempty"`
}

// PrivateUser holds the remaining User fields, present only in full projections
type PrivateUser struct {
	EmailVerificationTime *time.Time `json:"emailVerificationTime,omitempty"`
	PhoneVerificationTime *time.Time `json:"phoneVerificationTime,omitempty"`
	IsAnonymous           *bool      `json:"isAnonymous,omitempty"`
	UpdatedAt             *time.Time `json:"updatedAt,omitempty"`
}

// Entry is one projected user. A nil PrivateUser marshals as the public subset.
type Entry struct {
	PublicUser
	*PrivateUser
}

// Project maps users to entries, full when full is true, otherwise redacted.
func Project(users []models.User, full bool) []Entry {
	entries := make([]Entry, 0, len(users))
	for i := range users {
		u := &users[i]
		entry := Entry{
			PublicUser: PublicUser{
				ID:                 u.ID,
				CreationTime:       u.CreatedAt,
				Name:               u.Name,
				Email:              u.Email,
				Phone:              u.Phone,
				Image:              u.Image,
				VerificationStatus: u.VerificationStatus,
				Role:               u.Role,
			},
		}
		if full {
			updatedAt := u.UpdatedAt
			entry.PrivateUser = &PrivateUser{
				EmailVerificationTime: u.EmailVerificationTime,
				PhoneVerificationTime: u.PhoneVerificationTime,
				IsAnonymous:           u.IsAnonymous,
				UpdatedAt:             &updatedAt,
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// MaxPageSize caps a single directory page
const MaxPageSize = 100

// Query narrows projected entries
type Query struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

// Filter applies search and status, returning the matching entries
func Filter(entries []Entry, q Query) []Entry {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	status := strings.TrimSpace(q.Status)
	if status == "all" {
		status = ""
	}

	matched := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if status != "" && string(e.VerificationStatus) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.Email), search) {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}

// Paginate slices one page out of entries. Page is 1-based, a page size of 0
// returns everything, larger sizes are capped at MaxPageSize.
func Paginate(entries []Entry, page, pageSize int) []Entry {
	if pageSize <= 0 {
		return entries
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(entries) {
		return []Entry{}
	}
	end := min(start+pageSize, len(entries))
	return entries[start:end]
}

// Apply filters then paginates, also returning the filtered total
func Apply(entries []Entry, q Query) ([]Entry, int) {
	matched := Filter(entries, q)
	return Paginate(matched, q.Page, q.PageSize), len(matched)
}
