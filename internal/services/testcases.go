// testcases.go
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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/localnerve/jam-build-testsheets/internal/metrics"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/policy"
	"github.com/localnerve/jam-build-testsheets/internal/types"
	"gorm.io/gorm"
)

const (
	// FunctionalityListLimit caps the functionality grid listing
	FunctionalityListLimit = 100

	// UnknownExecutorName is shown for test cases nobody has executed
	UnknownExecutorName = "N/A"
)

// TestCaseSet holds the test cases of one sheet. Type selects which slice is
// meaningful; only that slice is marshaled.
type TestCaseSet struct {
	Type             models.TestCaseType
	Functionality    []models.FunctionalityTestCase
	AltTextAriaLabel []models.AltTextAriaLabelTestCase
}

// Cases returns the slice selected by Type
func (s TestCaseSet) Cases() any {
	switch s.Type {
	case models.TestCaseTypeAltTextAriaLabel:
		if s.AltTextAriaLabel == nil {
			return []models.AltTextAriaLabelTestCase{}
		}
		return s.AltTextAriaLabel
	default:
		if s.Functionality == nil {
			return []models.FunctionalityTestCase{}
		}
		return s.Functionality
	}
}

// Len is the number of cases of the selected type
func (s TestCaseSet) Len() int {
	if s.Type == models.TestCaseTypeAltTextAriaLabel {
		return len(s.AltTextAriaLabel)
	}
	return len(s.Functionality)
}

// SheetTestCases is a sheet together with its test cases
type SheetTestCases struct {
	Sheet *models.Sheet
	Set   TestCaseSet
}

func (s SheetTestCases) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sheet        *models.Sheet       `json:"sheet"`
		TestCaseType models.TestCaseType `json:"testCaseType"`
		TestCases    any                 `json:"testCases"`
	}{
		Sheet:        s.Sheet,
		TestCaseType: s.Set.Type,
		TestCases:    s.Set.Cases(),
	})
}

// TestCase is a single test case of either shape
type TestCase struct {
	Type             models.TestCaseType
	Functionality    *models.FunctionalityTestCase
	AltTextAriaLabel *models.AltTextAriaLabelTestCase
}

func (tc TestCase) MarshalJSON() ([]byte, error) {
	if tc.Type == models.TestCaseTypeAltTextAriaLabel {
		return json.Marshal(tc.AltTextAriaLabel)
	}
	return json.Marshal(tc.Functionality)
}

// GetTestCasesForSheet loads a sheet and every test case of its type, oldest
// first. It returns nil when the sheet id is malformed or unknown.
func GetTestCasesForSheet(db *gorm.DB, rawSheetID string) (*SheetTestCases, error) {
	sheet, err := GetSheetByID(db, rawSheetID)
	if err != nil || sheet == nil {
		return nil, err
	}

	set := TestCaseSet{Type: sheet.TestCaseType}
	query := db.Where("sheet_id = ?", sheet.ID).Order("created_at ASC").Order("id ASC")
	switch sheet.TestCaseType {
	case models.TestCaseTypeAltTextAriaLabel:
		err = query.Find(&set.AltTextAriaLabel).Error
	default:
		set.Type = models.TestCaseTypeFunctionality
		err = query.Find(&set.Functionality).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}

	return &SheetTestCases{Sheet: sheet, Set: set}, nil
}

// FunctionalityRow is a functionality test case with resolved author names
type FunctionalityRow struct {
	models.FunctionalityTestCase
	CreatedByName  string `json:"createdByName"`
	ExecutedByName string `json:"executedByName"`
}

// FunctionalityListing is the functionality grid payload
type FunctionalityListing struct {
	Viewer    *string            `json:"viewer"`
	TestCases []FunctionalityRow `json:"testCases"`
}

// ListFunctionalityTestCases returns the newest functionality test cases of a
// sheet with creator and executor emails. A malformed sheet id yields an
// empty listing with no viewer.
func ListFunctionalityTestCases(db *gorm.DB, caller *models.User, rawSheetID string) (*FunctionalityListing, error) {
	listing := &FunctionalityListing{TestCases: []FunctionalityRow{}}

	sheetID, ok := models.NormalizeID(rawSheetID)
	if !ok {
		return listing, nil
	}
	if caller != nil && caller.Email != "" {
		viewer := caller.Email
		listing.Viewer = &viewer
	}

	var cases []models.FunctionalityTestCase
	if err := db.Where("sheet_id = ?", sheetID).
		Order("created_at DESC").Order("id DESC").
		Limit(FunctionalityListLimit).
		Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}

	userIDs := make([]string, 0, len(cases)*2)
	for _, tc := range cases {
		userIDs = append(userIDs, tc.CreatedBy)
		if tc.ExecutedBy != nil {
			userIDs = append(userIDs, *tc.ExecutedBy)
		}
	}
	emails, err := emailsByID(db, userIDs)
	if err != nil {
		return nil, err
	}

	for _, tc := range cases {
		createdBy, ok := emails[tc.CreatedBy]
		if !ok {
			createdBy = UnknownOwnerName
		}
		executedBy := UnknownExecutorName
		if tc.ExecutedBy != nil {
			if email, ok := emails[*tc.ExecutedBy]; ok {
				executedBy = email
			}
		}
		listing.TestCases = append(listing.TestCases, FunctionalityRow{
			FunctionalityTestCase: tc,
			CreatedByName:         createdBy,
			ExecutedByName:        executedBy,
		})
	}

	return listing, nil
}

// FunctionalityInput is the body of a functionality test case creation
type FunctionalityInput struct {
	Title           string             `json:"title"`
	Module          string             `json:"module,omitempty"`
	SubModule       string             `json:"subModule,omitempty"`
	Level           models.TestLevel   `json:"level"`
	Scenario        models.Scenario    `json:"scenario"`
	PreConditions   string             `json:"preConditions,omitempty"`
	Steps           string             `json:"steps"`
	ExpectedResults string             `json:"expectedResults"`
	ActualResults   string             `json:"actualResults,omitempty"`
	Status          models.TestStatus  `json:"status,omitempty"`
	ExecutedBy      *string            `json:"executedBy,omitempty"`
	ExecutedAt      *time.Time         `json:"executedAt,omitempty"`
	JiraUserStory   string             `json:"jiraUserStory,omitempty"`
	RowHeight       *types.FlexFloat64 `json:"rowHeight,omitempty"`
}

// AltTextAriaLabelInput is the body of an alt text test case creation
type AltTextAriaLabelInput struct {
	Persona          models.Persona          `json:"persona"`
	Module           string                  `json:"module"`
	SubModule        string                  `json:"subModule,omitempty"`
	PageSection      string                  `json:"pageSection"`
	WireframeLink    string                  `json:"wireframeLink,omitempty"`
	ImagesIcons      string                  `json:"imagesIcons,omitempty"`
	Remarks          string                  `json:"remarks,omitempty"`
	AltTextAriaLabel string                  `json:"altTextAriaLabel"`
	SEImplementation models.SEImplementation `json:"seImplementation,omitempty"`
	ActualResults    string                  `json:"actualResults,omitempty"`
	TestingStatus    models.TestStatus       `json:"testingStatus,omitempty"`
	ExecutedBy       *string                 `json:"executedBy,omitempty"`
	ExecutedAt       *time.Time              `json:"executedAt,omitempty"`
	JiraUserStory    string                  `json:"jiraUserStory,omitempty"`
	RowHeight        *types.FlexFloat64      `json:"rowHeight,omitempty"`
}

// CreateTestCase adds a test case to a sheet. body is decoded into the shape
// the sheet's test case type selects. The caller must own the sheet or hold
// an approved editor permission.
func CreateTestCase(db *gorm.DB, caller *models.User, rawSheetID string, body []byte) (*TestCase, error) {
	if caller == nil {
		return nil, types.AuthenticationRequired("Not authenticated")
	}

	sheet, err := requireSheet(db, rawSheetID)
	if err != nil {
		return nil, err
	}

	perm, err := findCallerPermission(db, sheet, caller)
	if err != nil {
		return nil, err
	}
	if guard := policy.CanEditSheet(sheet, caller, perm); !guard.Allowed {
		return nil, types.AccessDenied(guard.Reason)
	}

	switch sheet.TestCaseType {
	case models.TestCaseTypeFunctionality:
		var input FunctionalityInput
		if err := json.Unmarshal(body, &input); err != nil {
			return nil, types.Validation(fmt.Sprintf("Invalid functionality test case: %v", err))
		}
		tc, err := newFunctionalityTestCase(sheet, caller, input)
		if err != nil {
			return nil, err
		}
		if err := db.Create(tc).Error; err != nil {
			return nil, fmt.Errorf("failed to create test case: %w", err)
		}
		return &TestCase{Type: sheet.TestCaseType, Functionality: tc}, nil

	case models.TestCaseTypeAltTextAriaLabel:
		var input AltTextAriaLabelInput
		if err := json.Unmarshal(body, &input); err != nil {
			return nil, types.Validation(fmt.Sprintf("Invalid alt text test case: %v", err))
		}
		tc, err := newAltTextAriaLabelTestCase(sheet, caller, input)
		if err != nil {
			return nil, err
		}
		if err := db.Create(tc).Error; err != nil {
			return nil, fmt.Errorf("failed to create test case: %w", err)
		}
		return &TestCase{Type: sheet.TestCaseType, AltTextAriaLabel: tc}, nil
	}

	return nil, fmt.Errorf("sheet %s has unknown test case type %q", sheet.ID, sheet.TestCaseType)
}

func newFunctionalityTestCase(sheet *models.Sheet, caller *models.User, in FunctionalityInput) (*models.FunctionalityTestCase, error) {
	if err := requireFields(
		[2]string{"title", in.Title},
		[2]string{"steps", in.Steps},
		[2]string{"expectedResults", in.ExpectedResults},
	); err != nil {
		return nil, err
	}

	if len(in.Module) > models.MaxModuleLength {
		return nil, types.Validation(fmt.Sprintf("Module exceeds %d characters", models.MaxModuleLength))
	}
	if !in.Level.Valid() {
		return nil, types.Validation(fmt.Sprintf("Invalid level %q", in.Level))
	}
	if !in.Scenario.Valid() {
		return nil, types.Validation(fmt.Sprintf("Invalid scenario %q", in.Scenario))
	}
	status, err := testStatusOrDefault(in.Status)
	if err != nil {
		return nil, err
	}
	executedBy, err := optionalUserID(in.ExecutedBy)
	if err != nil {
		return nil, err
	}
	rowHeight, err := initialRowHeight(in.RowHeight)
	if err != nil {
		return nil, err
	}

	return &models.FunctionalityTestCase{
		SheetID:         sheet.ID,
		Title:           strings.TrimSpace(in.Title),
		Module:          in.Module,
		SubModule:       in.SubModule,
		Level:           in.Level,
		Scenario:        in.Scenario,
		PreConditions:   in.PreConditions,
		Steps:           in.Steps,
		ExpectedResults: in.ExpectedResults,
		ActualResults:   in.ActualResults,
		Status:          status,
		CreatedBy:       caller.ID,
		ExecutedBy:      executedBy,
		JiraUserStory:   in.JiraUserStory,
		ExecutedAt:      in.ExecutedAt,
		RowHeight:       rowHeight,
	}, nil
}

func newAltTextAriaLabelTestCase(sheet *models.Sheet, caller *models.User, in AltTextAriaLabelInput) (*models.AltTextAriaLabelTestCase, error) {
	if err := requireFields(
		[2]string{"module", in.Module},
		[2]string{"pageSection", in.PageSection},
		[2]string{"altTextAriaLabel", in.AltTextAriaLabel},
	); err != nil {
		return nil, err
	}

	if !in.Persona.Valid() {
		return nil, types.Validation(fmt.Sprintf("Invalid persona %q", in.Persona))
	}
	seImplementation := in.SEImplementation
	if seImplementation == "" {
		seImplementation = models.SEImplementationNotYet
	}
	if !seImplementation.Valid() {
		return nil, types.Validation(fmt.Sprintf("Invalid seImplementation %q", in.SEImplementation))
	}
	status, err := testStatusOrDefault(in.TestingStatus)
	if err != nil {
		return nil, err
	}
	executedBy, err := optionalUserID(in.ExecutedBy)
	if err != nil {
		return nil, err
	}
	rowHeight, err := initialRowHeight(in.RowHeight)
	if err != nil {
		return nil, err
	}

	return &models.AltTextAriaLabelTestCase{
		SheetID:          sheet.ID,
		Persona:          in.Persona,
		Module:           in.Module,
		SubModule:        in.SubModule,
		PageSection:      in.PageSection,
		WireframeLink:    in.WireframeLink,
		ImagesIcons:      in.ImagesIcons,
		Remarks:          in.Remarks,
		AltTextAriaLabel: in.AltTextAriaLabel,
		SEImplementation: seImplementation,
		ActualResults:    in.ActualResults,
		TestingStatus:    status,
		CreatedBy:        caller.ID,
		ExecutedBy:       executedBy,
		JiraUserStory:    in.JiraUserStory,
		ExecutedAt:       in.ExecutedAt,
		RowHeight:        rowHeight,
	}, nil
}

// requireFields reports every blank {name, value} pair as one ValidationError
func requireFields(fields ...[2]string) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return types.Validation("Missing required fields: " + strings.Join(missing, ", "))
}

func testStatusOrDefault(status models.TestStatus) (models.TestStatus, error) {
	if status == "" {
		return models.TestStatusNotRun, nil
	}
	if !status.Valid() {
		return "", types.Validation(fmt.Sprintf("Invalid test status %q", status))
	}
	return status, nil
}

func optionalUserID(raw *string) (*string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, ok := models.NormalizeID(*raw)
	if !ok {
		return nil, types.Validation(fmt.Sprintf("Invalid executedBy user id %q", *raw))
	}
	return &id, nil
}

func initialRowHeight(requested *types.FlexFloat64) (float64, error) {
	if requested == nil {
		return models.DefaultRowHeight, nil
	}
	height, _, err := ClampRowHeight(requested.Float64())
	return height, err
}

// ClampRowHeight clamps h to the allowed pixel range. clamped reports whether
// h was outside the range. NaN and infinities are rejected.
func ClampRowHeight(h float64) (height float64, clamped bool, err error) {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, false, types.Validation("Row height must be a finite number")
	}
	switch {
	case h < models.MinRowHeight:
		return models.MinRowHeight, true, nil
	case h > models.MaxRowHeight:
		return models.MaxRowHeight, true, nil
	}
	return h, false, nil
}

// RowHeightResult acknowledges a row height update
type RowHeightResult struct {
	Success   bool    `json:"success"`
	NewHeight float64 `json:"newHeight"`
}

// UpdateFunctionalityTestCaseRowHeight persists a clamped row height. Any
// authenticated caller may resize any row.
func UpdateFunctionalityTestCaseRowHeight(db *gorm.DB, caller *models.User, rawID string, height float64) (*RowHeightResult, error) {
	return updateRowHeight[models.FunctionalityTestCase](db, caller, rawID, height)
}

// UpdateAltTextAriaLabelTestCaseRowHeight persists a clamped row height. Any
// authenticated caller may resize any row.
func UpdateAltTextAriaLabelTestCaseRowHeight(db *gorm.DB, caller *models.User, rawID string, height float64) (*RowHeightResult, error) {
	return updateRowHeight[models.AltTextAriaLabelTestCase](db, caller, rawID, height)
}

type tabler interface {
	TableName() string
}

// updateRowHeight patches only row_height and updated_at of one row of T
func updateRowHeight[T tabler](db *gorm.DB, caller *models.User, rawID string, height float64) (*RowHeightResult, error) {
	if caller == nil {
		return nil, types.AuthenticationRequired("Not authenticated")
	}

	id, ok := models.NormalizeID(rawID)
	if !ok {
		return nil, types.InvalidID("Invalid test case id")
	}

	newHeight, clamped, err := ClampRowHeight(height)
	if err != nil {
		return nil, err
	}

	var row T
	table := row.TableName()
	err = quiet(db).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("Test case not found")
	}
	if err != nil {
		return nil, err
	}

	err = db.Model(&row).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"row_height": newHeight,
		"updated_at": time.Now().UTC(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update row height: %w", err)
	}

	metrics.RowHeightUpdated(table, clamped)
	return &RowHeightResult{Success: true, NewHeight: newHeight}, nil
}
