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

package handlers

import (
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/services"
	"github.com/localnerve/jam-build-testsheets/internal/types"
	"github.com/localnerve/jam-build-testsheets/internal/utils"
	"gorm.io/gorm"
)

// TestCaseHandler handles test case routes
type TestCaseHandler struct {
	DB *gorm.DB
}

// RowHeightInput is the body of a row height update. rowHeight may be a
// number or a numeric string.
type RowHeightInput struct {
	RowHeight *types.FlexFloat64 `json:"rowHeight" swaggertype:"number"`
}

func (in RowHeightInput) height() float64 {
	if in.RowHeight == nil {
		return math.NaN()
	}
	return in.RowHeight.Float64()
}

// GetTestCasesForSheet handles GET /api/sheets/:id/testcases
// @Summary Get a sheet with its test cases
// @Description testCases holds the shape selected by testCaseType. A malformed or unknown id is a 404.
// @Tags TestCases
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sheets/{id}/testcases [get]
func (h *TestCaseHandler) GetTestCasesForSheet(c *fiber.Ctx) error {
	result, err := services.GetTestCasesForSheet(scoped(c, h.DB), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if result == nil {
		return utils.NotFoundResponse(c, "Sheet not found")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// ListFunctionalityTestCases handles GET /api/sheets/:id/testcases/functionality
// @Summary List functionality test cases for the grid
// @Description Newest first, at most 100, with creator and executor emails
// @Tags TestCases
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {object} services.FunctionalityListing
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sheets/{id}/testcases/functionality [get]
func (h *TestCaseHandler) ListFunctionalityTestCases(c *fiber.Ctx) error {
	listing, err := services.ListFunctionalityTestCases(scoped(c, h.DB), caller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(listing)
}

// CreateTestCase handles POST /api/sheets/:id/testcases
// @Summary Add a test case to a sheet
// @Description The body shape follows the sheet's testCaseType. Owner or approved editor only.
// @Tags TestCases
// @Accept json
// @Produce json
// @Param id path string true "Sheet ID"
// @Param body body object true "services.FunctionalityInput or services.AltTextAriaLabelInput"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /sheets/{id}/testcases [post]
func (h *TestCaseHandler) CreateTestCase(c *fiber.Ctx) error {
	tc, err := services.CreateTestCase(scoped(c, h.DB), caller(c), c.Params("id"), c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tc)
}

// UpdateFunctionalityRowHeight handles PATCH /api/testcases/functionality/:id/row-height
// @Summary Persist a functionality grid row height
// @Description The height is clamped to [20, 500]. Any authenticated caller.
// @Tags TestCases
// @Accept json
// @Produce json
// @Param id path string true "Test case ID"
// @Param body body RowHeightInput true "Row height"
// @Success 200 {object} services.RowHeightResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /testcases/functionality/{id}/row-height [patch]
func (h *TestCaseHandler) UpdateFunctionalityRowHeight(c *fiber.Ctx) error {
	return h.updateRowHeight(c, models.TestCaseTypeFunctionality)
}

// UpdateAltTextAriaLabelRowHeight handles PATCH /api/testcases/alt-text-aria-label/:id/row-height
// @Summary Persist an alt text grid row height
// @Description The height is clamped to [20, 500]. Any authenticated caller.
// @Tags TestCases
// @Accept json
// @Produce json
// @Param id path string true "Test case ID"
// @Param body body RowHeightInput true "Row height"
// @Success 200 {object} services.RowHeightResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /testcases/alt-text-aria-label/{id}/row-height [patch]
func (h *TestCaseHandler) UpdateAltTextAriaLabelRowHeight(c *fiber.Ctx) error {
	return h.updateRowHeight(c, models.TestCaseTypeAltTextAriaLabel)
}

func (h *TestCaseHandler) updateRowHeight(c *fiber.Ctx, table models.TestCaseType) error {
	if caller(c) == nil {
		return respondError(c, types.AuthenticationRequired("Not authenticated"))
	}

	var body RowHeightInput
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	db := scoped(c, h.DB)
	var (
		result *services.RowHeightResult
		err    error
	)
	if table == models.TestCaseTypeAltTextAriaLabel {
		result, err = services.UpdateAltTextAriaLabelTestCaseRowHeight(db, caller(c), c.Params("id"), body.height())
	} else {
		result, err = services.UpdateFunctionalityTestCaseRowHeight(db, caller(c), c.Params("id"), body.height())
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
