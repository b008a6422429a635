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

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/localnerve/jam-build-testsheets/internal/services"
	"github.com/spf13/cobra"
)

// UsersCmd returns the users command
func UsersCmd(open DBOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect users and assign roles",
	}

	cmd.AddCommand(usersListCmd(open))
	cmd.AddCommand(usersSetRoleCmd(open))

	return cmd
}

func usersListCmd(open DBOpener) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long: `List users, oldest first.

Examples:
  sheetsctl users list
  sheetsctl users list --status pending`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := models.VerificationStatus(status)
			if status != "" && !filter.Valid() {
				return fmt.Errorf("invalid status %q, expected pending, approved or declined", status)
			}

			db, err := open()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			users, err := services.ListUsersByStatus(db, filter)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, "No users found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tSTATUS\tROLE")
			fmt.Fprintln(w, "--\t-----\t----\t------\t----")
			for _, u := range users {
				role := string(u.Role)
				if role == "" {
					role = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					u.ID,
					u.Email,
					u.Name,
					colorStatus(u.VerificationStatus),
					role,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only list users with this verification status")

	return cmd
}

func usersSetRoleCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role [user-id] [role]",
		Short: "Assign a user's role",
		Long: `Assign a user's role. Roles cannot be changed over HTTP; this is how the
first super_admin is bootstrapped.

Examples:
  sheetsctl users set-role 6f1c1e34-2a52-4d0e-9a55-0d8f0c3f7a11 super_admin`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.Role(args[1])
			if !role.Valid() {
				return fmt.Errorf("invalid role %q, expected user, admin or super_admin", args[1])
			}

			db, err := open()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			user, err := services.SetUserRole(db, args[0], role)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is now %s\n", user.Email, user.Role)
			return nil
		},
	}
}
