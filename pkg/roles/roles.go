package roles

// Role is the capability level of a principal.
type Role string

const (
	Employee   Role = "employee"
	Supervisor Role = "supervisor"
	Admin      Role = "admin"
)

type HierarchyLevel int

const (
	EmployeeLevel   HierarchyLevel = 1
	SupervisorLevel HierarchyLevel = 2
	AdminLevel      HierarchyLevel = 3
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Employee:
		return EmployeeLevel
	case Supervisor:
		return SupervisorLevel
	case Admin:
		return AdminLevel
	default:
		return EmployeeLevel
	}
}

// HasPermission reports whether the role grants at least the required level.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case Employee, Supervisor, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
