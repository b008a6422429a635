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

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-testsheets/internal/services"
	"github.com/localnerve/jam-build-testsheets/internal/utils"
	"gorm.io/gorm"
)

// SheetHandler handles sheet routes
type SheetHandler struct {
	DB        *gorm.DB
	ListLimit int
	Now       func() time.Time
}

func (h *SheetHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// ListSheets handles GET /api/sheets
// @Summary List sheets
// @Description The most recently created sheets with owner names and permission summaries
// @Tags Sheets
// @Produce json
// @Success 200 {array} services.SheetListing
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sheets [get]
func (h *SheetHandler) ListSheets(c *fiber.Ctx) error {
	listings, err := services.ListSheets(scoped(c, h.DB), caller(c), h.ListLimit, h.now())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(listings)
}

// GetSheet handles GET /api/sheets/:id
// @Summary Get a sheet
// @Description A malformed or unknown id is a 404
// @Tags Sheets
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {object} models.Sheet
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sheets/{id} [get]
func (h *SheetHandler) GetSheet(c *fiber.Ctx) error {
	sheet, err := services.GetSheetByID(scoped(c, h.DB), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if sheet == nil {
		return utils.NotFoundResponse(c, "Sheet not found")
	}
	return c.Status(fiber.StatusOK).JSON(sheet)
}

// CreateSheet handles POST /api/sheets
// @Summary Create a sheet
// @Description Approved callers only. The test case type cannot change afterwards.
// @Tags Sheets
// @Accept json
// @Produce json
// @Param body body services.CreateSheetInput true "Sheet"
// @Success 201 {object} models.Sheet
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /sheets [post]
func (h *SheetHandler) CreateSheet(c *fiber.Ctx) error {
	var body services.CreateSheetInput
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	sheet, err := services.CreateSheet(scoped(c, h.DB), caller(c), body, h.now())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sheet)
}

// MarkOpened handles POST /api/sheets/:id/opened
// @Summary Record that a sheet was opened
// @Tags Sheets
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {object} models.Sheet
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /sheets/{id}/opened [post]
func (h *SheetHandler) MarkOpened(c *fiber.Ctx) error {
	sheet, err := services.MarkSheetOpened(scoped(c, h.DB), caller(c), c.Params("id"), h.now())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(sheet)
}
