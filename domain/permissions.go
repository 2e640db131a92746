package domain

import "sort"

// Permission tokens gating actions and UI surfaces
const (
	CanApproveManagers = "CanApproveManagers"
	CanManageUsers     = "CanManageUsers"
	CanManageSettings  = "CanManageSettings"
	CanManageProfile   = "CanManageProfile"
	CanCreateEvents    = "CanCreateEvents"
	CanViewOwnEvents   = "CanViewOwnEvents"
	CanViewTicketSales = "CanViewTicketSales"
	CanBrowseEvents    = "CanBrowseEvents"
	CanViewOwnTickets  = "CanViewOwnTickets"
	CanViewAllEvents   = "CanViewAllEvents"
)

// rolePermissions is the fixed role -> default permission mapping. It is
// advisory presentation metadata: the identity service materializes these
// into User.Permissions at account creation, and authorization decisions
// always read User.Permissions, never this table.
var rolePermissions = map[Role][]string{
	RoleAdmin:   {CanApproveManagers, CanManageUsers, CanManageSettings, CanManageProfile},
	RoleManager: {CanCreateEvents, CanViewOwnEvents, CanViewTicketSales, CanManageProfile},
	RoleClient:  {CanBrowseEvents, CanViewOwnTickets, CanManageProfile, CanViewAllEvents},
}

// DefaultPermissions returns a copy of the role's default permission set.
// Unknown roles have no defaults.
func DefaultPermissions(role Role) []string {
	defaults, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(defaults))
	copy(out, defaults)
	return out
}

// ManuallyGranted returns the permissions present on the user beyond the
// role defaults, sorted, for "custom vs. default" admin presentation.
func ManuallyGranted(u *User) []string {
	if u == nil {
		return nil
	}
	defaults := make(map[string]struct{})
	for _, p := range rolePermissions[u.Role] {
		defaults[p] = struct{}{}
	}
	var granted []string
	seen := make(map[string]struct{})
	for _, p := range u.Permissions {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if _, def := defaults[p]; !def {
			granted = append(granted, p)
		}
	}
	sort.Strings(granted)
	return granted
}
