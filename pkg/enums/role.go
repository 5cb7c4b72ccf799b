package enums

// Role mirrors the roles the venue backend assigns to users.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "GERENTE"
	RoleSeller  Role = "VENDEDOR"
	RoleClient  Role = "CLIENTE"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSeller, RoleClient:
		return true
	}
	return false
}

// CanOperateTerminal reports whether the role may drive the order terminal.
// Matches the venue rule: sellers run tables, admins can cover a shift.
func (r Role) CanOperateTerminal() bool {
	return r == RoleSeller || r == RoleAdmin
}
