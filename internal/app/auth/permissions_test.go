package auth

import (
	"testing"

	"github.com/selinay/moraled/internal/app/models"
)

// The full role/action grant table. Roles not listed for an action must be
// denied; the system administrator is allowed everything.
var grantTable = map[Action][]models.Role{
	ActionManageUsers: {
		models.RoleSystemAdmin, models.RolePrincipal, models.RoleDirector,
	},
	ActionScoreStudents: {
		models.RoleSystemAdmin, models.RolePrincipal, models.RoleDirector,
		models.RoleMoralSupervisor, models.RoleTeachingTeacher, models.RoleClassTeacher,
	},
	ActionConfigureRules: {
		models.RoleSystemAdmin, models.RoleMoralSupervisor,
	},
	ActionExportReports: {
		models.RoleSystemAdmin, models.RolePrincipal, models.RoleDirector,
		models.RoleMoralSupervisor, models.RoleClassTeacher,
	},
	ActionAdministerClasses: {
		models.RoleSystemAdmin, models.RolePrincipal, models.RoleDirector,
		models.RoleTeachingTeacher, models.RoleClassTeacher,
	},
	ActionReviewSubmissions: {
		models.RoleSystemAdmin, models.RolePrincipal, models.RoleDirector,
		models.RoleMoralSupervisor, models.RoleTeachingTeacher, models.RoleClassTeacher,
	},
}

func TestIsAuthorizedMatchesGrantTable(t *testing.T) {
	for action, allowed := range grantTable {
		allowedSet := make(map[models.Role]bool, len(allowed))
		for _, r := range allowed {
			allowedSet[r] = true
		}
		for _, role := range models.AllRoles {
			want := allowedSet[role]
			if got := IsAuthorized(role, action); got != want {
				t.Errorf("IsAuthorized(%s, %s) = %v, want %v", role, action, got, want)
			}
		}
	}
}

func TestSystemAdminAuthorizedForEverything(t *testing.T) {
	actions := []Action{
		ActionManageUsers, ActionScoreStudents, ActionConfigureRules,
		ActionExportReports, ActionAdministerClasses, ActionReviewSubmissions,
		Action("some-future-action"),
	}
	for _, action := range actions {
		if !IsAuthorized(models.RoleSystemAdmin, action) {
			t.Errorf("system administrator denied %s", action)
		}
	}
}

func TestUnknownActionDenied(t *testing.T) {
	for _, role := range models.AllRoles {
		if role == models.RoleSystemAdmin {
			continue
		}
		if IsAuthorized(role, Action("not-a-real-action")) {
			t.Errorf("role %s authorized for unknown action", role)
		}
	}
}

func TestReviewSubmissionsMirrorsScoreStudents(t *testing.T) {
	for _, role := range models.AllRoles {
		score := IsAuthorized(role, ActionScoreStudents)
		review := IsAuthorized(role, ActionReviewSubmissions)
		if score != review {
			t.Errorf("role %s: score-students=%v review-submissions=%v, want equal", role, score, review)
		}
	}
}
