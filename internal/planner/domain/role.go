package domain

// Role is the closed set of role tags an account or invitation can carry.
type Role string

const (
	// RoleMember is the default unprivileged role.
	RoleMember Role = "member"
	// RoleLead marks squad leads, who manage their squad's sprints.
	RoleLead Role = "lead"
	// RoleAdmin is the top administrative tier.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known role tags.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleLead, RoleAdmin:
		return true
	}
	return false
}

// Privileged reports whether granting r requires the administrative tier.
// Inviting plain members is open to any known account; handing out lead or
// admin roles is the escalation the guard exists for.
func (r Role) Privileged() bool {
	return r == RoleLead || r == RoleAdmin
}

func (r Role) String() string { return string(r) }
