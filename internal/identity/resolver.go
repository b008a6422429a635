// resolver.go
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

// Package identity resolves the caller of a request to a local User record.
// Resolution fails closed: any failure yields an anonymous caller.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/jam-build-testsheets/internal/models"
	"gorm.io/gorm"
)

// ErrInvalidSession is returned by validators for a token that does not resolve
var ErrInvalidSession = errors.New("session is not valid")

// Session is the identity asserted by a valid session token
type Session struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Phone         string
	PhoneVerified bool
	Image         string
}

// SessionValidator checks an opaque session token
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*Session, error)
}

// Resolver maps session tokens to local users, provisioning on first sign in
type Resolver struct {
	db        *gorm.DB
	validator SessionValidator
	now       func() time.Time
}

// NewResolver creates a Resolver
func NewResolver(db *gorm.DB, validator SessionValidator) *Resolver {
	return &Resolver{db: db, validator: validator, now: time.Now}
}

// Resolve returns the caller for token, or nil for an anonymous caller.
// An empty token is anonymous without error.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" || r.validator == nil {
		return nil, nil
	}

	session, err := r.validator.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	user, err := findBySubject(db, session.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = r.provision(session)
	if err := db.Create(user).Error; err != nil {
		// A concurrent first request may have provisioned the same subject
		existing, findErr := findBySubject(db, session.Subject)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	return user, nil
}

func (r *Resolver) provision(session *Session) *models.User {
	subject := session.Subject
	now := r.now().UTC()

	user := &models.User{
		AuthSubject:        &subject,
		Name:               session.Name,
		Email:              session.Email,
		Phone:              session.Phone,
		Image:              session.Image,
		VerificationStatus: models.VerificationStatusPending,
		Role:               models.RoleUser,
	}
	if session.EmailVerified {
		user.EmailVerificationTime = &now
	}
	if session.PhoneVerified {
		user.PhoneVerificationTime = &now
	}
	return user
}

func findBySubject(db *gorm.DB, subject string) (*models.User, error) {
	var user models.User
	err := db.Where("auth_subject = ?", subject).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}
