// cli.go
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

// Package cli holds the sheetsctl operator commands
package cli

import (
	"github.com/fatih/color"
	"github.com/localnerve/jam-build-testsheets/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// DBOpener opens the database a command operates on. The caller owns closing it.
type DBOpener func() (*gorm.DB, error)

// RootCmd returns the sheetsctl command tree
func RootCmd(open DBOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetsctl",
		Short: "Operator tools for the testsheets service",
		Long: `sheetsctl runs maintenance tasks directly against the testsheets database.
It reads the same environment (or ENV_FILE) as the server.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(MigrateCmd(open))
	rootCmd.AddCommand(UsersCmd(open))

	return rootCmd
}

func colorStatus(status models.VerificationStatus) string {
	switch status {
	case models.VerificationStatusApproved:
		return color.New(color.FgGreen).Sprint(status)
	case models.VerificationStatusDeclined:
		return color.New(color.FgRed).Sprint(status)
	default:
		return color.New(color.FgYellow).Sprint(status)
	}
}
