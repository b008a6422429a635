// testcase.go
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

const (
	// MinRowHeight and MaxRowHeight bound the persisted grid row height in pixels
	MinRowHeight = 20
	MaxRowHeight = 500

	// DefaultRowHeight is used for new test cases
	DefaultRowHeight = 40

	// MaxModuleLength applies to functionality test case modules
	MaxModuleLength = 50
)

// FunctionalityTestCase is a row of a functionality sheet
type FunctionalityTestCase struct {
	ID              string     `gorm:"type:char(36);primaryKey" json:"id"`
	SheetID         string     `gorm:"type:char(36);not null;index" json:"sheetId"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Module          string     `gorm:"size:50;index" json:"module,omitempty"`
	SubModule       string     `gorm:"size:255" json:"subModule,omitempty"`
	Level           TestLevel  `gorm:"size:8;not null" json:"level"`
	Scenario        Scenario   `gorm:"size:16;not null" json:"scenario"`
	PreConditions   string     `gorm:"type:text" json:"preConditions,omitempty"`
	Steps           string     `gorm:"type:text;not null" json:"steps"`
	ExpectedResults string     `gorm:"type:text;not null" json:"expectedResults"`
	ActualResults   string     `gorm:"type:text" json:"actualResults,omitempty"`
	Status          TestStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedBy       string     `gorm:"type:char(36);not null;index" json:"createdBy"`
	ExecutedBy      *string    `gorm:"type:char(36);index" json:"executedBy,omitempty"`
	JiraUserStory   string     `gorm:"size:255" json:"jiraUserStory,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	ExecutedAt      *time.Time `json:"executedAt,omitempty"`
	RowHeight       float64    `gorm:"not null" json:"rowHeight"`
}

// TableName overrides the table name for FunctionalityTestCase
func (FunctionalityTestCase) TableName() string {
	return "functionality_test_cases"
}

// AltTextAriaLabelTestCase is a row of an accessibility (alt text / ARIA label) sheet
type AltTextAriaLabelTestCase struct {
	ID               string           `gorm:"type:char(36);primaryKey" json:"id"`
	SheetID          string           `gorm:"type:char(36);not null;index" json:"sheetId"`
	Persona          Persona          `gorm:"size:32;not null;index" json:"persona"`
	Module           string           `gorm:"size:255;not null;index" json:"module"`
	SubModule        string           `gorm:"size:255" json:"subModule,omitempty"`
	PageSection      string           `gorm:"size:255;not null" json:"pageSection"`
	WireframeLink    string           `gorm:"size:1024" json:"wireframeLink,omitempty"`
	ImagesIcons      string           `gorm:"type:text" json:"imagesIcons,omitempty"`
	Remarks          string           `gorm:"type:text" json:"remarks,omitempty"`
	AltTextAriaLabel string           `gorm:"type:text;not null" json:"altTextAriaLabel"`
	SEImplementation SEImplementation `gorm:"column:se_implementation;size:16;not null;index" json:"seImplementation"`
	ActualResults    string           `gorm:"type:text" json:"actualResults,omitempty"`
	TestingStatus    TestStatus       `gorm:"size:16;not null;index" json:"testingStatus"`
	CreatedBy        string           `gorm:"type:char(36);not null;index" json:"createdBy"`
	ExecutedBy       *string          `gorm:"type:char(36);index" json:"executedBy,omitempty"`
	JiraUserStory    string           `gorm:"size:255" json:"jiraUserStory,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	ExecutedAt       *time.Time       `json:"executedAt,omitempty"`
	RowHeight        float64          `gorm:"not null" json:"rowHeight"`
}

// TableName overrides the table name for AltTextAriaLabelTestCase
func (AltTextAriaLabelTestCase) TableName() string {
	return "alt_text_aria_label_test_cases"
}

// All lists every model for migrations
func All() []interface{} {
	return []interface{}{
		&User{},
		&Sheet{},
		&Permission{},
		&FunctionalityTestCase{},
		&AltTextAriaLabelTestCase{},
	}
}
