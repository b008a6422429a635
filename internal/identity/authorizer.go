// authorizer.go
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

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	authorizer "github.com/localnerve/authorizer-go"
	"github.com/localnerve/jam-build-testsheets/internal/config"
	"github.com/localnerve/jam-build-testsheets/internal/utils"
)

// AuthorizerValidator validates session cookies against an Authorizer instance
type AuthorizerValidator struct {
	client *authorizer.AuthorizerClient
	roles  []string
}

// NewAuthorizerValidator pings the Authorizer service and creates the client.
// roles, when given, must all be held by a session for it to validate.
func NewAuthorizerValidator(cfg *config.Config, roles ...string) (*AuthorizerValidator, error) {
	if err := cfg.RequireAuthorizer(); err != nil {
		return nil, err
	}

	if err := utils.PingAuthorizer(context.Background(), cfg.AuthzURL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
		cfg.AuthzURL, cfg.AuthzClientID, cfg.AuthzRedirectURL)

	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, cfg.AuthzRedirectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}

	return &AuthorizerValidator{client: client, roles: roles}, nil
}

// sessionUser is the subset of the Authorizer user record used for provisioning
type sessionUser struct {
	ID                  string  `json:"id"`
	Email               string  `json:"email"`
	EmailVerified       bool    `json:"email_verified"`
	GivenName           *string `json:"given_name"`
	FamilyName          *string `json:"family_name"`
	Nickname            *string `json:"nickname"`
	PhoneNumber         *string `json:"phone_number"`
	PhoneNumberVerified *bool   `json:"phone_number_verified"`
	Picture             *string `json:"picture"`
}

// Validate implements SessionValidator
func (v *AuthorizerValidator) Validate(_ context.Context, token string) (*Session, error) {
	rolesPtrs := make([]*string, len(v.roles))
	for i := range v.roles {
		rolesPtrs[i] = &v.roles[i]
	}

	res, err := v.client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: token,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid || res.User == nil {
		return nil, ErrInvalidSession
	}

	// Round trip through JSON to read the fields by their wire names
	raw, err := json.Marshal(res.User)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session user: %w", err)
	}
	var su sessionUser
	if err := json.Unmarshal(raw, &su); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}

	return su.session()
}

func (su sessionUser) session() (*Session, error) {
	if su.ID == "" {
		return nil, ErrInvalidSession
	}

	name := strings.TrimSpace(deref(su.GivenName) + " " + deref(su.FamilyName))
	if name == "" {
		name = deref(su.Nickname)
	}

	return &Session{
		Subject:       su.ID,
		Email:         su.Email,
		EmailVerified: su.EmailVerified,
		Name:          name,
		Phone:         deref(su.PhoneNumber),
		PhoneVerified: su.PhoneNumberVerified != nil && *su.PhoneNumberVerified,
		Image:         deref(su.Picture),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
