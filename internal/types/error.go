// error.go
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

package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types reported in the "type" field of error responses
const (
	TypeAuthenticationRequired = "sheets.authentication.required"
	TypeAccessDenied           = "sheets.authorization.denied"
	TypeProfileNotFound        = "sheets.profile.notfound"
	TypeTargetNotFound         = "sheets.target.notfound"
	TypeNotFound               = "sheets.resource.notfound"
	TypeInvalidID              = "sheets.id.invalid"
	TypeValidation             = "sheets.validation.input"
	TypeConflict               = "sheets.permission.conflict"
	TypeServer                 = "sheets.server.error"
)

type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// IsKind reports whether err is a CustomError of the given type
func IsKind(err error, errorType string) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Type == errorType
}

func AuthenticationRequired(message string) *CustomError {
	return &CustomError{Code: http.StatusUnauthorized, Message: message, Type: TypeAuthenticationRequired}
}

func AccessDenied(message string) *CustomError {
	return &CustomError{Code: http.StatusForbidden, Message: message, Type: TypeAccessDenied}
}

func ProfileNotFound(message string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: TypeProfileNotFound}
}

func TargetNotFound(message string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: TypeTargetNotFound}
}

func NotFound(message string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: TypeNotFound}
}

func InvalidID(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeInvalidID}
}

func Validation(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeValidation}
}

func Conflict(message string) *CustomError {
	return &CustomError{Code: http.StatusConflict, Message: message, Type: TypeConflict}
}
