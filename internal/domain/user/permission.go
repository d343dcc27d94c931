package user

type Permission string

const (
	// Directory
	PermissionDirectoryView Permission = "directory.view"
	PermissionProfileManage Permission = "profile.manage"

	// Rostering
	PermissionRosterView   Permission = "roster.view"
	PermissionRosterManage Permission = "roster.manage"

	// Attendance
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceApprove Permission = "attendance.approve"

	// Leave
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// Payroll
	PermissionPayrollView     Permission = "payroll.view"
	PermissionPayrollApprove  Permission = "payroll.approve"
	PermissionPayrollExport   Permission = "payroll.export"
	PermissionDeductionManage Permission = "deduction.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionDirectoryView,
		PermissionProfileManage,
		PermissionRosterView,
		PermissionRosterManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceCreate,
		PermissionAttendanceApprove,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionPayrollView,
		PermissionPayrollApprove,
		PermissionPayrollExport,
		PermissionDeductionManage,
	},
	RolePlantManager: {
		PermissionDirectoryView,
		PermissionRosterView,
		PermissionRosterManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceCreate,
		PermissionAttendanceApprove,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
	},
	RolePayrollOfficer: {
		PermissionDirectoryView,
		PermissionProfileManage,
		PermissionRosterView,
		PermissionAttendanceViewAll,
		PermissionLeaveViewAll,
		PermissionPayrollView,
		PermissionPayrollApprove,
		PermissionPayrollExport,
		PermissionDeductionManage,
	},
	RoleViewer: {
		PermissionDirectoryView,
		PermissionRosterView,
		PermissionAttendanceViewAll,
		PermissionLeaveViewAll,
		PermissionPayrollView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
