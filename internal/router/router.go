// Package router decides which screen a client sees.
package router

import (
	"fmt"

	"github.com/sheikh-saqib/apb-demo-bank/internal/models"
)

type View string

const (
	ViewLogin      View = "login"
	ViewDashboard  View = "dashboard"
	ViewTransfer   View = "transfer"
	ViewMarket     View = "market"
	ViewAdmin      View = "admin"
	ViewStaff      View = "staff"
	ViewOnboarding View = "onboarding"
)

var views = []View{ViewLogin, ViewDashboard, ViewTransfer, ViewMarket, ViewAdmin, ViewStaff, ViewOnboarding}

// ParseView accepts the view names above; the empty string means "home".
func ParseView(s string) (View, error) {
	if s == "" {
		return "", nil
	}
	for _, v := range views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// AdminOnly reports whether navigation only offers v to admins.
func (v View) AdminOnly() bool {
	return v == ViewAdmin || v == ViewStaff || v == ViewOnboarding
}

// Router resolves views. With Enforce unset, a non-admin who asks for an
// admin view directly still gets it: the menu is the only gate.
type Router struct {
	Enforce bool
}

// Home is the landing view after login.
func Home(role models.Role) View {
	if role == models.RoleAdmin {
		return ViewAdmin
	}
	return ViewDashboard
}

// Resolve maps the session state and the requested view to the rendered view.
func (r Router) Resolve(hasSession bool, role models.Role, requested View) View {
	if !hasSession {
		return ViewLogin
	}
	if requested == "" || requested == ViewLogin {
		return Home(role)
	}
	if r.Enforce && requested.AdminOnly() && role != models.RoleAdmin {
		return ViewDashboard
	}
	return requested
}

// Menu lists the views navigation offers to role.
func Menu(role models.Role) []View {
	menu := []View{ViewDashboard, ViewTransfer, ViewMarket}
	if role == models.RoleAdmin {
		menu = append(menu, ViewAdmin, ViewStaff)
	}
	return menu
}
