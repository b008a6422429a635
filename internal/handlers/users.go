// users.go
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
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-testsheets/internal/directory"
	"github.com/localnerve/jam-build-testsheets/internal/services"
	"gorm.io/gorm"
)

// UserHandler handles user directory and verification routes
type UserHandler struct {
	DB *gorm.DB
}

// VerificationStatusInput is the body of a verification status change
type VerificationStatusInput struct {
	NewStatus string `json:"newStatus"`
}

// ListUsers handles GET /api/users
// @Summary List users
// @Description List every user. Approved callers see full records, everyone else the public subset.
// @Tags Users
// @Produce json
// @Param search query string false "Case-insensitive substring of name or email"
// @Param status query string false "pending, approved, declined or all"
// @Param page query int false "1-based page"
// @Param pageSize query int false "Page size, 0 for everything, at most 100"
// @Success 200 {array} directory.Entry
// @Header 200 {integer} X-Total-Count "Number of matching users"
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	q := directory.Query{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 0),
	}

	list, err := services.ListUsers(scoped(c, h.DB), caller(c), q)
	if err != nil {
		return respondError(c, err)
	}

	c.Set("X-Total-Count", strconv.Itoa(list.Total))
	return c.Status(fiber.StatusOK).JSON(list.Users)
}

// GetMyProfile handles GET /api/users/me
// @Summary Get the caller's profile
// @Description Returns the caller's user record, or 204 when anonymous
// @Tags Users
// @Produce json
// @Success 200 {object} models.User
// @Success 204 "Anonymous caller"
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	profile, err := services.GetMyProfile(scoped(c, h.DB), caller(c))
	if err != nil {
		return respondError(c, err)
	}
	if profile == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// UpdateVerificationStatus handles PATCH /api/users/:id/verification-status
// @Summary Update a user's verification status
// @Description Super admins only. Any status may be set from any other.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body VerificationStatusInput true "New status"
// @Success 200 {object} services.VerificationStatusResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users/{id}/verification-status [patch]
func (h *UserHandler) UpdateVerificationStatus(c *fiber.Ctx) error {
	var body VerificationStatusInput
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}

	result, err := services.UpdateUserVerificationStatus(scoped(c, h.DB), caller(c), c.Params("id"), body.NewStatus)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
