package model

// Role represents a user's access level in the sales organization.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleTeamLeader Role = "team_leader"
	RoleDirector   Role = "director"
)

// roleLevels defines the total order over known roles. Unknown roles
// map to level 0 so they fail every minimum-role check instead of
// erroring out.
var roleLevels = map[Role]int{
	RoleEmployee:   1,
	RoleTeamLeader: 2,
	RoleDirector:   3,
}

// Valid checks if the role is a known value.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the role's position in the hierarchy. Unknown roles
// are level 0.
func (r Role) Level() int {
	return roleLevels[r]
}

// Satisfies reports whether the role meets the given minimum role.
func (r Role) Satisfies(minRole Role) bool {
	return r.Level() >= minRole.Level()
}

// Exact reports whether the role is one of the required roles.
func (r Role) Exact(required ...Role) bool {
	for _, want := range required {
		if r == want {
			return true
		}
	}
	return false
}

// DisplayName returns the user-facing label for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleEmployee:
		return "Account Executive"
	case RoleTeamLeader:
		return "Team Leader"
	case RoleDirector:
		return "Director"
	default:
		return string(r)
	}
}
