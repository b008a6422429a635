// sheets.go
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

	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/policy"
	"github.com/localnerve/jam-build-testsheets/internal/types"
	"gorm.io/gorm"
)

const (
	// DefaultSheetListLimit is the number of most recent sheets listed
	DefaultSheetListLimit = 100

	// UnknownOwnerName is shown for sheets whose owner record is missing
	UnknownOwnerName = "Unknown User"

	// UnknownUserEmail is shown for permissions whose user record is missing
	UnknownUserEmail = "Unknown"

	maxSheetNameLength = 255
)

// Recency groups listed sheets on the dashboard
type Recency string

const (
	RecencyToday          Recency = "today"
	RecencyPrevious30Days Recency = "previous30Days"
	RecencyEarlier        Recency = "earlier"
)

// RecencyOf buckets t relative to the calendar day of now
func RecencyOf(t, now time.Time) Recency {
	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch {
	case !t.Before(startOfToday):
		return RecencyToday
	case !t.Before(startOfToday.AddDate(0, 0, -30)):
		return RecencyPrevious30Days
	default:
		return RecencyEarlier
	}
}

// PermissionSummary is a permission row as shown in the sheet listing
type PermissionSummary struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	UserEmail string                  `json:"userEmail"`
	Level     models.PermissionLevel  `json:"level"`
	Status    models.PermissionStatus `json:"status"`
	Message   *string                 `json:"message,omitempty"`
}

// SheetListing is one dashboard entry
type SheetListing struct {
	models.Sheet
	OwnerName      string              `json:"ownerName"`
	IsOwnedByMe    bool                `json:"isOwnedByMe"`
	Permissions    []PermissionSummary `json:"permissions"`
	HasPermissions bool                `json:"hasPermissions"`
	Recency        Recency             `json:"recency"`
}

// ListSheets returns the most recently created sheets, newest first, each with
// the owner's name and its permission rows. Owners and permission users are
// looked up in one batch each; missing records fall back to display defaults.
func ListSheets(db *gorm.DB, caller *models.User, limit int, now time.Time) ([]SheetListing, error) {
	if limit <= 0 {
		limit = DefaultSheetListLimit
	}

	var sheets []models.Sheet
	if err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&sheets).Error; err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	if len(sheets) == 0 {
		return []SheetListing{}, nil
	}

	sheetIDs := make([]string, 0, len(sheets))
	userIDs := make([]string, 0, len(sheets))
	for _, s := range sheets {
		sheetIDs = append(sheetIDs, s.ID)
		userIDs = append(userIDs, s.OwnerID)
	}

	var perms []models.Permission
	if err := db.Where("sheet_id IN ?", sheetIDs).Order("created_at ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	permsBySheet := make(map[string][]models.Permission, len(sheets))
	for _, p := range perms {
		permsBySheet[p.SheetID] = append(permsBySheet[p.SheetID], p)
		userIDs = append(userIDs, p.UserID)
	}

	emails, err := emailsByID(db, userIDs)
	if err != nil {
		return nil, err
	}

	listings := make([]SheetListing, 0, len(sheets))
	for _, s := range sheets {
		ownerName, ok := emails[s.OwnerID]
		if !ok {
			ownerName = UnknownOwnerName
		}

		sheetPerms := permsBySheet[s.ID]
		summaries := make([]PermissionSummary, 0, len(sheetPerms))
		for _, p := range sheetPerms {
			email, ok := emails[p.UserID]
			if !ok {
				email = UnknownUserEmail
			}
			summaries = append(summaries, PermissionSummary{
				ID:        p.ID,
				UserID:    p.UserID,
				UserEmail: email,
				Level:     p.Level,
				Status:    p.Status,
				Message:   p.Message,
			})
		}

		lastActive := s.LastOpenedAt
		if lastActive.IsZero() {
			lastActive = s.CreatedAt
		}

		listings = append(listings, SheetListing{
			Sheet:          s,
			OwnerName:      ownerName,
			IsOwnedByMe:    policy.IsOwner(&s, caller),
			Permissions:    summaries,
			HasPermissions: len(summaries) > 0,
			Recency:        RecencyOf(lastActive, now),
		})
	}

	return listings, nil
}

// emailsByID maps user ids to emails. Missing users and users without an
// email are absent from the map.
func emailsByID(db *gorm.DB, ids []string) (map[string]string, error) {
	emails := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return emails, nil
	}

	var users []models.User
	if err := db.Select("id", "email").Where("id IN ?", uniqueStrings(ids)).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}
	for _, u := range users {
		if u.Email != "" {
			emails[u.ID] = u.Email
		}
	}
	return emails, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// GetSheetByID returns the sheet, or nil when the id is malformed or unknown
func GetSheetByID(db *gorm.DB, rawID string) (*models.Sheet, error) {
	id, ok := models.NormalizeID(rawID)
	if !ok {
		return nil, nil
	}

	var sheet models.Sheet
	err := quiet(db).Where("id = ?", id).First(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

// requireSheet is GetSheetByID with a missing sheet reported as NotFound
func requireSheet(db *gorm.DB, rawID string) (*models.Sheet, error) {
	sheet, err := GetSheetByID(db, rawID)
	if err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, types.NotFound("Sheet not found")
	}
	return sheet, nil
}

// CreateSheetInput is the body of a sheet creation
type CreateSheetInput struct {
	Name         string              `json:"name"`
	Type         models.SheetType    `json:"type,omitempty"`
	TestCaseType models.TestCaseType `json:"testCaseType"`
	IsPublic     *bool               `json:"isPublic,omitempty"`
	Requestable  *bool               `json:"requestable,omitempty"`
}

// CreateSheet creates a sheet owned by the caller. Only approved callers may
// create sheets; the test case type is fixed from here on.
func CreateSheet(db *gorm.DB, caller *models.User, input CreateSheetInput, now time.Time) (*models.Sheet, error) {
	if caller == nil {
		return nil, types.AuthenticationRequired("Not authenticated")
	}
	if !policy.CanCreateSheet(caller) {
		return nil, types.AccessDenied("Only approved users can create sheets")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, types.Validation("Sheet name is required")
	}
	if len(name) > maxSheetNameLength {
		return nil, types.Validation(fmt.Sprintf("Sheet name exceeds %d characters", maxSheetNameLength))
	}

	sheetType := input.Type
	if sheetType == "" {
		sheetType = models.SheetTypeSheet
	}
	if !sheetType.Valid() {
		return nil, types.Validation(fmt.Sprintf("Invalid sheet type %q", input.Type))
	}
	if !input.TestCaseType.Valid() {
		return nil, types.Validation(fmt.Sprintf("Invalid test case type %q", input.TestCaseType))
	}

	requestable := true
	if input.Requestable != nil {
		requestable = *input.Requestable
	}
	isPublic := false
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	sheet := &models.Sheet{
		Name:         name,
		Type:         sheetType,
		OwnerID:      caller.ID,
		LastOpenedAt: now.UTC(),
		IsPublic:     &isPublic,
		Requestable:  &requestable,
		TestCaseType: input.TestCaseType,
	}
	if err := db.Create(sheet).Error; err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	return sheet, nil
}

// MarkSheetOpened stamps the sheet's last opened time
func MarkSheetOpened(db *gorm.DB, caller *models.User, rawID string, now time.Time) (*models.Sheet, error) {
	if caller == nil {
		return nil, types.AuthenticationRequired("Not authenticated")
	}
	if _, ok := models.NormalizeID(rawID); !ok {
		return nil, types.InvalidID("Invalid sheet id")
	}

	sheet, err := requireSheet(db, rawID)
	if err != nil {
		return nil, err
	}

	opened := now.UTC()
	if err := db.Model(sheet).UpdateColumn("last_opened_at", opened).Error; err != nil {
		return nil, fmt.Errorf("failed to mark sheet opened: %w", err)
	}
	sheet.LastOpenedAt = opened
	return sheet, nil
}
