package auth

import (
	"github.com/selinay/moraled/internal/app/models"
)

// Action is a protected operation category. Every mutating endpoint is guarded
// by exactly one action; read endpoints are guarded by the scoping engine.
type Action string

const (
	ActionManageUsers       Action = "manage-users"
	ActionScoreStudents     Action = "score-students"
	ActionConfigureRules    Action = "configure-rules"
	ActionExportReports     Action = "export-reports"
	ActionAdministerClasses Action = "administer-classes"
	ActionReviewSubmissions Action = "review-submissions"
)

// scoringRoles is shared by score-students and review-submissions: whoever may
// record scores may also review parent/student submissions.
var scoringRoles = []models.Role{
	models.RolePrincipal,
	models.RoleDirector,
	models.RoleMoralSupervisor,
	models.RoleTeachingTeacher,
	models.RoleClassTeacher,
}

// actionRoles maps each action to the roles allowed to perform it. The system
// administrator is implicitly authorized for every action and is not listed.
var actionRoles = map[Action][]models.Role{
	ActionManageUsers: {
		models.RolePrincipal,
		models.RoleDirector,
	},
	ActionScoreStudents: scoringRoles,
	ActionConfigureRules: {
		models.RoleMoralSupervisor,
	},
	ActionExportReports: {
		models.RolePrincipal,
		models.RoleDirector,
		models.RoleMoralSupervisor,
		models.RoleClassTeacher,
	},
	ActionAdministerClasses: {
		models.RolePrincipal,
		models.RoleDirector,
		models.RoleTeachingTeacher,
		models.RoleClassTeacher,
	},
	ActionReviewSubmissions: scoringRoles,
}

// IsAuthorized reports whether a role may perform an action. Pure function
// over the static table above; unknown actions are denied for every role
// except the system administrator.
func IsAuthorized(role models.Role, action Action) bool {
	if role == models.RoleSystemAdmin {
		return true
	}
	for _, allowed := range actionRoles[action] {
		if allowed == role {
			return true
		}
	}
	return false
}
