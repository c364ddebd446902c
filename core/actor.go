package core

// Roles
const (
	RoleStudent  = "student"
	RoleEmployer = "employer"
	RoleFaculty  = "faculty"
)

var AllRoles = []string{RoleStudent, RoleEmployer, RoleFaculty}

// Actor identifies the authenticated party performing an operation.
// It is passed explicitly into every service call; there is no ambient
// session state.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsStudent() bool  { return a.Role == RoleStudent }
func (a Actor) IsEmployer() bool { return a.Role == RoleEmployer }
func (a Actor) IsFaculty() bool  { return a.Role == RoleFaculty }
