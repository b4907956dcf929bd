// Package principal carries the authenticated caller through every service
// call. The tenant check lives here and runs as step one of every public
// operation; no tenant state travels in context values.
package principal

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

var ErrPermissionDenied = errors.New("permission_denied")

// Role is the caller's coarse role as asserted by the upstream gateway.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleCustomer Role = "customer"
)

// Principal is the authenticated caller. MerchantID is zero for admins
// that are not bound to a tenant.
type Principal struct {
	UserID     string
	Role       Role
	MerchantID snowflake.ID
}

// IsAdmin reports whether the principal bypasses tenant scoping.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Authorize enforces the tenant isolation contract: a non-admin principal
// may only act on its own merchant.
func (p Principal) Authorize(merchantID snowflake.ID) error {
	if p.IsAdmin() {
		return nil
	}
	if p.MerchantID == 0 || p.MerchantID != merchantID {
		return ErrPermissionDenied
	}
	return nil
}

// IsOperatorFor reports whether the principal holds an operator role for
// the merchant.
func (p Principal) IsOperatorFor(merchantID snowflake.ID) bool {
	return p.Role == RoleOperator && p.MerchantID == merchantID
}
