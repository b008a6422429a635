// enums.go
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

package models

// VerificationStatus gates directory visibility for a user account.
// VerificationStatusUnset never satisfies a policy check.
type VerificationStatus string

const (
	VerificationStatusUnset    VerificationStatus = ""
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusDeclined VerificationStatus = "declined"
)

// Valid reports whether s is one of the concrete statuses
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationStatusPending, VerificationStatusApproved, VerificationStatusDeclined:
		return true
	}
	return false
}

// Role is the privilege tier of a user. RoleUnset is distinct from RoleUser.
type Role string

const (
	RoleUnset      Role = ""
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is one of the concrete roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// SheetType is the kind of file a sheet entry represents
type SheetType string

const (
	SheetTypeSheet  SheetType = "sheet"
	SheetTypeDoc    SheetType = "doc"
	SheetTypePDF    SheetType = "pdf"
	SheetTypeFolder SheetType = "folder"
	SheetTypeOther  SheetType = "other"
)

func (t SheetType) Valid() bool {
	switch t {
	case SheetTypeSheet, SheetTypeDoc, SheetTypePDF, SheetTypeFolder, SheetTypeOther:
		return true
	}
	return false
}

// TestCaseType selects which test case table a sheet owns
type TestCaseType string

const (
	TestCaseTypeFunctionality    TestCaseType = "functionality"
	TestCaseTypeAltTextAriaLabel TestCaseType = "altTextAriaLabel"
)

func (t TestCaseType) Valid() bool {
	return t == TestCaseTypeFunctionality || t == TestCaseTypeAltTextAriaLabel
}

// PermissionLevel is the access tier a sheet permission grants
type PermissionLevel string

const (
	PermissionLevelViewer    PermissionLevel = "viewer"
	PermissionLevelCommenter PermissionLevel = "commenter"
	PermissionLevelEditor    PermissionLevel = "editor"
)

func (l PermissionLevel) Valid() bool {
	switch l {
	case PermissionLevelViewer, PermissionLevelCommenter, PermissionLevelEditor:
		return true
	}
	return false
}

// PermissionStatus is the lifecycle state of a sheet permission
type PermissionStatus string

const (
	PermissionStatusPending  PermissionStatus = "pending"
	PermissionStatusApproved PermissionStatus = "approved"
	PermissionStatusDeclined PermissionStatus = "declined"
)

func (s PermissionStatus) Valid() bool {
	switch s {
	case PermissionStatusPending, PermissionStatusApproved, PermissionStatusDeclined:
		return true
	}
	return false
}

// TestStatus is the execution outcome shared by both test case shapes
type TestStatus string

const (
	TestStatusPassed       TestStatus = "Passed"
	TestStatusFailed       TestStatus = "Failed"
	TestStatusNotRun       TestStatus = "Not Run"
	TestStatusBlocked      TestStatus = "Blocked"
	TestStatusNotAvailable TestStatus = "Not Available"
)

func (s TestStatus) Valid() bool {
	switch s {
	case TestStatusPassed, TestStatusFailed, TestStatusNotRun, TestStatusBlocked, TestStatusNotAvailable:
		return true
	}
	return false
}

// TestLevel is the TC_Level classification
type TestLevel string

const (
	TestLevelHigh TestLevel = "High"
	TestLevelLow  TestLevel = "Low"
)

func (l TestLevel) Valid() bool {
	return l == TestLevelHigh || l == TestLevelLow
}

// Scenario classifies a functionality test case path
type Scenario string

const (
	ScenarioHappyPath   Scenario = "Happy Path"
	ScenarioUnhappyPath Scenario = "Unhappy Path"
)

func (s Scenario) Valid() bool {
	return s == ScenarioHappyPath || s == ScenarioUnhappyPath
}

// Persona is the audience an accessibility test case is written for
type Persona string

const (
	PersonaSuperAdmin       Persona = "Super Admin"
	PersonaAdmin            Persona = "Admin"
	PersonaUser             Persona = "User"
	PersonaEmployee         Persona = "Employee"
	PersonaReportingManager Persona = "Reporting Manager"
	PersonaManager          Persona = "Manager"
)

func (p Persona) Valid() bool {
	switch p {
	case PersonaSuperAdmin, PersonaAdmin, PersonaUser, PersonaEmployee, PersonaReportingManager, PersonaManager:
		return true
	}
	return false
}

// SEImplementation is the remediation state of an accessibility finding
type SEImplementation string

const (
	SEImplementationNotYet       SEImplementation = "Not yet"
	SEImplementationOngoing      SEImplementation = "Ongoing"
	SEImplementationDone         SEImplementation = "Done"
	SEImplementationHasConcerns  SEImplementation = "Has Concerns"
	SEImplementationToUpdate     SEImplementation = "To Update"
	SEImplementationOutdated     SEImplementation = "Outdated"
	SEImplementationNotAvailable SEImplementation = "Not Available"
)

func (s SEImplementation) Valid() bool {
	switch s {
	case SEImplementationNotYet, SEImplementationOngoing, SEImplementationDone, SEImplementationHasConcerns,
		SEImplementationToUpdate, SEImplementationOutdated, SEImplementationNotAvailable:
		return true
	}
	return false
}
