// permissions.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/services"
	"gorm.io/gorm"
)

// PermissionHandler handles sheet sharing routes
type PermissionHandler struct {
	DB *gorm.DB
}

// PermissionResponseInput is the owner's answer to an access request
type PermissionResponseInput struct {
	Status models.PermissionStatus `json:"status"`
}

// RequestAccess handles POST /api/sheets/:id/permissions
// @Summary Request access to a sheet
// @Description Files or refreshes the caller's request. Requires a requestable or public sheet.
// @Tags Permissions
// @Accept json
// @Produce json
// @Param id path string true "Sheet ID"
// @Param body body services.AccessRequestInput true "Requested level"
// @Success 200 {object} models.Permission
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /sheets/{id}/permissions [post]
func (h *PermissionHandler) RequestAccess(c *fiber.Ctx) error {
	var body services.AccessRequestInput
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	perm, err := services.RequestSheetAccess(scoped(c, h.DB), caller(c), c.Params("id"), body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(perm)
}

// ListPermissions handles GET /api/sheets/:id/permissions
// @Summary List a sheet's permissions
// @Description Owner only
// @Tags Permissions
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {array} services.PermissionDetail
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /sheets/{id}/permissions [get]
func (h *PermissionHandler) ListPermissions(c *fiber.Ctx) error {
	details, err := services.ListSheetPermissions(scoped(c, h.DB), caller(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(details)
}

// Respond handles PATCH /api/permissions/:id
// @Summary Approve or decline an access request
// @Description Owner only. Approval marks the sheet shared.
// @Tags Permissions
// @Accept json
// @Produce json
// @Param id path string true "Permission ID"
// @Param body body PermissionResponseInput true "approved or declined"
// @Success 200 {object} models.Permission
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /permissions/{id} [patch]
func (h *PermissionHandler) Respond(c *fiber.Ctx) error {
	var body PermissionResponseInput
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	perm, err := services.RespondToPermission(scoped(c, h.DB), caller(c), c.Params("id"), body.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(perm)
}
