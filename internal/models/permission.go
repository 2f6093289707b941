package models

// Capability names an action that a role may or may not perform.
// Authorization decisions go through this table instead of methods on the
// role type, so adding a capability never touches the role definitions.
type Capability string

const (
	CapManageUsers      Capability = "manage_users"
	CapManageStudents   Capability = "manage_students"
	CapManageFaculty    Capability = "manage_faculty"
	CapManageCourses    Capability = "manage_courses"
	CapManageEnrollment Capability = "manage_enrollment"
	CapAssignGrades     Capability = "assign_grades"
	CapViewReports      Capability = "view_reports"
	CapViewMetrics      Capability = "view_metrics"
)

// permissions is the role → capability grant table.
var permissions = map[UserRole]map[Capability]bool{
	RoleStudent: {
		CapManageEnrollment: true,
	},
	RoleFaculty: {
		CapManageCourses: true,
		CapAssignGrades:  true,
		CapViewReports:   true,
	},
	RoleAdminStaff: {
		CapManageStudents:   true,
		CapManageFaculty:    true,
		CapManageCourses:    true,
		CapManageEnrollment: true,
		CapAssignGrades:     true,
		CapViewReports:      true,
	},
	RoleSystemAdmin: {
		CapManageUsers:      true,
		CapManageStudents:   true,
		CapManageFaculty:    true,
		CapManageCourses:    true,
		CapManageEnrollment: true,
		CapAssignGrades:     true,
		CapViewReports:      true,
		CapViewMetrics:      true,
	},
}

// RoleAllows reports whether the role is granted the capability.
func RoleAllows(role UserRole, capability Capability) bool {
	grants, ok := permissions[role]
	if !ok {
		return false
	}
	return grants[capability]
}

// IsAdmin reports whether the role carries administrative privileges.
func IsAdmin(role UserRole) bool {
	return role == RoleAdminStaff || role == RoleSystemAdmin
}
