// id.go
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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NormalizeID parses a raw identifier into its canonical form.
// ok is false for anything that is not a UUID, for every table.
func NormalizeID(raw string) (id string, ok bool) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// assignID gives a new record a UUID if the caller did not supply one
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// BeforeCreate assigns the primary key
func (u *User) BeforeCreate(_ *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// BeforeCreate assigns the primary key
func (s *Sheet) BeforeCreate(_ *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// BeforeCreate assigns the primary key
func (p *Permission) BeforeCreate(_ *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// BeforeCreate assigns the primary key
func (tc *FunctionalityTestCase) BeforeCreate(_ *gorm.DB) error {
	assignID(&tc.ID)
	return nil
}

// BeforeCreate assigns the primary key
func (tc *AltTextAriaLabelTestCase) BeforeCreate(_ *gorm.DB) error {
	assignID(&tc.ID)
	return nil
}
