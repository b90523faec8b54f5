// Package authz is the single declarative permission table for the whole API.
// Every mutating operation names itself here and the route middleware checks
// it before a handler runs, so role lists live in one table instead of being
// scattered across route definitions.
package authz

import (
	"fmt"

	"github.com/Lazvegas61/MyCafe-sql/internal/apierror"
)

// Role is a user role as stored on the users table and embedded in JWTs.
type Role string

const (
	RoleSys     Role = "SYS" // superuser, implicitly allowed everything
	RoleAdmin   Role = "ADMIN"
	RoleWaiter  Role = "WAITER"
	RoleKitchen Role = "KITCHEN"
)

// Operation identifies a permission-checked action.
type Operation string

const (
	OpOpenDay       Operation = "day.open"
	OpCloseDay      Operation = "day.close"
	OpViewSnapshots Operation = "day.snapshots"

	OpCreateInvoice Operation = "invoice.create"
	OpAddLine       Operation = "invoice.add_line"
	OpRemoveLine    Operation = "invoice.remove_line"
	OpCloseInvoice  Operation = "invoice.close"
	OpCancelInvoice Operation = "invoice.cancel"

	OpStartBilliard Operation = "billiard.start"
	OpEndBilliard   Operation = "billiard.end"

	OpProcessPayment Operation = "payment.process"
	OpProcessRefund  Operation = "payment.refund"

	OpCreateCustomer Operation = "customer.create"
	OpUpdateCustomer Operation = "customer.update"
	OpCreateDebt     Operation = "debt.create"
	OpPayDebt        Operation = "debt.pay"
	OpCorrectDebt    Operation = "debt.correct"
	OpViewDebtors    Operation = "debt.list_debtors"

	OpViewReports Operation = "report.view"
	OpManageUsers Operation = "user.manage"
)

// permissions maps each operation to its allow-list. SYS is never listed —
// it passes every check unconditionally.
var permissions = map[Operation][]Role{
	OpOpenDay:       {RoleAdmin},
	OpCloseDay:      {RoleAdmin},
	OpViewSnapshots: {RoleAdmin},

	OpCreateInvoice: {RoleWaiter, RoleAdmin},
	OpAddLine:       {RoleWaiter, RoleAdmin},
	OpRemoveLine:    {RoleWaiter, RoleAdmin},
	OpCloseInvoice:  {RoleAdmin},
	OpCancelInvoice: {RoleAdmin},

	OpStartBilliard: {RoleWaiter, RoleAdmin},
	OpEndBilliard:   {RoleWaiter, RoleAdmin},

	OpProcessPayment: {RoleWaiter, RoleAdmin},
	OpProcessRefund:  {RoleAdmin},

	OpCreateCustomer: {RoleWaiter, RoleAdmin},
	OpUpdateCustomer: {RoleAdmin},
	OpCreateDebt:     {RoleWaiter, RoleAdmin},
	OpPayDebt:        {RoleWaiter, RoleAdmin},
	OpCorrectDebt:    {RoleAdmin},
	OpViewDebtors:    {RoleAdmin},

	OpViewReports: {RoleAdmin},
	OpManageUsers: {RoleAdmin},
}

// Allowed reports whether role may perform op.
func Allowed(role Role, op Operation) bool {
	if role == RoleSys {
		return true
	}
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns the allow-list for op, excluding the implicit SYS.
func AllowedRoles(op Operation) []Role {
	return permissions[op]
}

// Check returns a PermissionDenied error when role may not perform op.
// The middleware runs it before the handler, so a denial has no side effects.
func Check(role Role, op Operation) error {
	if Allowed(role, op) {
		return nil
	}
	return apierror.PermissionDenied(fmt.Sprintf("operation %q requires one of the roles %v", op, permissions[op]))
}

// Valid reports whether s names a known role.
func Valid(s string) bool {
	switch Role(s) {
	case RoleSys, RoleAdmin, RoleWaiter, RoleKitchen:
		return true
	}
	return false
}
