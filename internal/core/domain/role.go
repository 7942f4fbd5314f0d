package domain

// Role is one of the four account tiers.
type Role string

const (
	RoleFounder Role = "founder"
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleUser    Role = "user"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFounder, RoleAdmin, RoleStaff, RoleUser:
		return true
	}
	return false
}

// ParseRole converts s into a Role, reporting whether it was recognised.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// RoleSet is the set of roles an operation declares as required.
// An empty set marks a public operation.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// AnyRole admits every authenticated account: USER-tagged operations are
// granted to all four tiers by the policy table.
var AnyRole = []Role{RoleFounder, RoleAdmin, RoleStaff, RoleUser}

// policy holds one rule per actor role. Unknown roles have no entry and are
// always denied.
var policy = map[Role]func(required RoleSet) bool{
	RoleFounder: func(RoleSet) bool { return true },
	RoleAdmin:   func(required RoleSet) bool { return !required.Has(RoleFounder) },
	RoleStaff:   func(required RoleSet) bool { return required.Has(RoleStaff) || required.Has(RoleUser) },
	RoleUser:    func(required RoleSet) bool { return required.Has(RoleUser) },
}

// Allow decides whether an actor holding role actor may perform an operation
// that requires one of required. It has no side effects.
//
//	required empty  -> allow (public)
//	founder         -> allow
//	admin           -> deny only when founder is required
//	staff           -> allow when staff or user is required
//	user            -> allow when user is required
//	anything else   -> deny
func Allow(actor Role, required RoleSet) bool {
	if len(required) == 0 {
		return true
	}
	rule, ok := policy[actor]
	if !ok {
		return false
	}
	return rule(required)
}
