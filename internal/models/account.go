package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Role separates bank staff from customers
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole rejects anything outside the closed set of roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// StaffRole is the staff roster label of an account.
type StaffRole string

const (
	StaffNone            StaffRole = "N/A"
	StaffClerk           StaffRole = "Clerk"
	StaffSeniorClerk     StaffRole = "Senior Clerk"
	StaffSecurityOfficer StaffRole = "Security Officer"
	StaffBranchManager   StaffRole = "Branch Manager"
	StaffHeadClerk       StaffRole = "Head Clerk"
)

// StaffRoles lists the roster options in display order.
var StaffRoles = []StaffRole{
	StaffNone,
	StaffClerk,
	StaffSeniorClerk,
	StaffSecurityOfficer,
	StaffBranchManager,
	StaffHeadClerk,
}

// ParseStaffRole rejects labels outside StaffRoles.
func ParseStaffRole(s string) (StaffRole, error) {
	for _, r := range StaffRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown staff role %q", s)
}

// Status is carried on every account and rendered, but no operation reads it.
type Status string

const (
	StatusActive          Status = "Active"
	StatusPendingTerms    Status = "Pending Terms"
	StatusTempBlacklisted Status = "Temp-Blacklisted"
	StatusPermBlacklisted Status = "Perm-Blacklisted"
)

// Card is a payment card attached to seeded accounts only
type Card struct {
	Number string `json:"number"`
	CVV    string `json:"cvv"`
	Expiry string `json:"expiry"`
}

// Account represents one registered entity in the directory
type Account struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Password       string          `json:"-"` // plaintext, compared as-is on login
	Name           string          `json:"name"`
	AccountNumber  string          `json:"account_number"`
	Role           Role            `json:"role"`
	StaffRole      StaffRole       `json:"staff_role"`
	Balance        decimal.Decimal `json:"balance"` // signed, admin adjustments may push it below zero
	SavingsBalance decimal.Decimal `json:"savings_balance"`
	Loan           decimal.Decimal `json:"loan"` // outstanding, never negative
	Status         Status          `json:"status"`
	Inventory      []string        `json:"inventory"`
	Card           *Card           `json:"card,omitempty"`
}

// Owns reports whether the item name is already in the inventory.
func (a Account) Owns(item string) bool {
	for _, owned := range a.Inventory {
		if owned == item {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with a.
func (a Account) Clone() Account {
	cp := a
	cp.Inventory = append(make([]string, 0, len(a.Inventory)), a.Inventory...)
	if a.Card != nil {
		card := *a.Card
		cp.Card = &card
	}
	return cp
}
