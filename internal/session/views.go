// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "github.com/taibuivan/collabconnect/internal/platform/sec"

// View is one guarded surface of the portal.
type View struct {
	Name  string           `json:"name"`
	Path  string           `json:"path"`
	Title string           `json:"title"`
	Roles []sec.SystemRole `json:"roles,omitempty"`
}

// hrRoles may open the HR back office views.
var hrRoles = []sec.SystemRole{sec.RoleHR, sec.RoleSuperAdmin, sec.RoleDirector}

// Views is the portal route table. Views without roles admit every
// authenticated user.
var Views = []View{
	{Name: "dashboard", Path: "/dashboard", Title: "Inicio", Roles: sec.AllRoles},
	{Name: "my-file", Path: "/my-file", Title: "Mi Expediente", Roles: sec.AllRoles},
	{Name: "requests", Path: "/requests", Title: "Solicitudes"},
	{Name: "profile", Path: "/profile", Title: "Mi Perfil"},
	{Name: "chat", Path: "/chat", Title: "Chat"},
	{Name: "hr-dashboard", Path: "/hr-dashboard", Title: "Panel RRHH", Roles: hrRoles},
	{Name: "companies", Path: "/companies", Title: "Empresas", Roles: hrRoles},
	{Name: "employees", Path: "/employees", Title: "Colaboradores", Roles: hrRoles},
	{Name: "files", Path: "/files", Title: "Expedientes", Roles: hrRoles},
}

// LookupView finds a view by name.
func LookupView(name string) (View, bool) {
	for _, view := range Views {
		if view.Name == name {
			return view, true
		}
	}
	return View{}, false
}

// Navigation returns the views user may open, in route table order.
func Navigation(user *AuthenticatedUser) []View {
	allowed := make([]View, 0, len(Views))
	for _, view := range Views {
		if Guard(user, view.Roles) == DecisionAllow {
			allowed = append(allowed, view)
		}
	}
	return allowed
}
