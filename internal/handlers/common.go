// common.go
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
	"github.com/localnerve/jam-build-testsheets/internal/middleware"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/types"
	"github.com/localnerve/jam-build-testsheets/internal/utils"
	"gorm.io/gorm"
)

// caller returns the resolved caller of the request, nil when anonymous
func caller(c *fiber.Ctx) *models.User {
	return middleware.Caller(c)
}

// scoped binds db to the request context
func scoped(c *fiber.Ctx, db *gorm.DB) *gorm.DB {
	return db.WithContext(c.UserContext())
}

// parseBody decodes the JSON body into out, reporting failures as a ValidationError
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return types.Validation("Invalid input")
	}
	return nil
}

// queryInt reads an integer query parameter, fallback when absent or malformed
func queryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// respondError writes err in the standard error envelope
func respondError(c *fiber.Ctx, err error) error {
	return utils.CustomErrorResponse(c, err)
}
