// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # System Roles

// SystemRole is the access tier stamped on every account at registration.
//
// It is distinct from the free-text job title a collaborator enters: the job
// title is descriptive, the role decides which views and endpoints are reachable.
type SystemRole string

const (
	// Platform owners (Talent / Disruptive leadership)
	RoleSuperAdmin SystemRole = "SuperAdmin"

	// Client company leadership
	RoleDirector SystemRole = "Director"

	// HR representatives of the Talent organisation
	RoleHR SystemRole = "HR"

	// Default role for every other account
	RoleCollaborator SystemRole = "Collaborator"
)

// AllRoles lists every system role in descending privilege order.
var AllRoles = []SystemRole{RoleSuperAdmin, RoleDirector, RoleHR, RoleCollaborator}

// Valid reports whether r is one of the four known roles.
func (r SystemRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleDirector, RoleHR, RoleCollaborator:
		return true
	default:
		return false
	}
}

// In reports whether r is a member of roles.
func (r SystemRole) In(roles ...SystemRole) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// ParseRole converts a stored role string, degrading unknown values to
// [RoleCollaborator].
func ParseRole(raw string) SystemRole {
	role := SystemRole(strings.TrimSpace(raw))
	if !role.Valid() {
		return RoleCollaborator
	}
	return role
}

// # Job Catalogue

// JobTitles is the catalogue offered by the registration form. Any other
// free-text title is accepted and resolves through the same rules.
var JobTitles = []string{
	"CEO", "Director General", "HRBP", "HR Manager", "Analista de RRHH",
	"Gerente de Proyecto", "Desarrollador", "Diseñador", "Analista de Marketing",
	"Ventas", "Operaciones", "Administrativo",
}

// # Role Resolution

/*
ResolveRole maps a job title and a company name to a [SystemRole].

Description: The rules are evaluated in order and the first match wins:

 1. talent/disruptive company and title CEO or HRBP  -> SuperAdmin
 2. company exactly "talent" and title HR Manager or HR -> HR
 3. title Director General or CEO                   -> Director
 4. anything else                                     -> Collaborator

The job title is only trimmed, so title matching is case-sensitive. The company
is trimmed and lower-cased before the substring and equality checks.

Parameters:
  - jobTitle: string
  - companyName: string

Returns:
  - SystemRole: never empty
*/
func ResolveRole(jobTitle, companyName string) SystemRole {
	job := strings.TrimSpace(jobTitle)
	company := strings.ToLower(strings.TrimSpace(companyName))

	isTalentOrDisruptive := strings.Contains(company, "talent") || strings.Contains(company, "disruptive")

	switch {
	case isTalentOrDisruptive && (job == "CEO" || job == "HRBP"):
		return RoleSuperAdmin
	case company == "talent" && (job == "HR Manager" || job == "HR"):
		return RoleHR
	case job == "Director General" || job == "CEO":
		return RoleDirector
	default:
		return RoleCollaborator
	}
}
