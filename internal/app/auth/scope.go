package auth

import (
	"github.com/selinay/moraled/internal/app/models"
)

// Resource identifies a scoped collection for listing.
type Resource string

const (
	ResourceClasses            Resource = "classes"
	ResourceBehaviorScores     Resource = "behavior-scores"
	ResourceAwards             Resource = "awards"
	ResourceParentObservations Resource = "parent-observations"
	ResourceStudentSelfReports Resource = "student-self-reports"
	ResourceRelationships      Resource = "student-parent-relationships"
)

// Viewer is the caller identity the scoping engine operates on: role plus the
// organizational affiliations the visibility rules consult. Affiliation slices
// may be nil for roles that have none.
type Viewer struct {
	UserID           int64
	Role             models.Role
	HomeClassID      *int64  // students: their home class
	TeachingClassIDs []int64 // teaching teachers: subject classes they teach
	LedClassIDs      []int64 // class teachers: classes they lead
	ChildIDs         []int64 // parents: linked students
}

// ScopeFilter is a declarative visibility filter for one (viewer, resource)
// pair. Exactly one of All/None holds, or one constraint field is set.
// Repositories translate the constraint into a WHERE clause; Matches evaluates
// it in memory.
type ScopeFilter struct {
	All  bool
	None bool

	// ClassIDs restricts class rows, or rows carrying a class column,
	// to these classes.
	ClassIDs []int64
	// SubjectIDs restricts rows to those whose subject (student) is listed.
	SubjectIDs []int64
	// SubjectClassIDs restricts rows to those whose subject's home class
	// is listed.
	SubjectClassIDs []int64
	// ParentID / StudentID restrict relationship rows to one side.
	ParentID  *int64
	StudentID *int64
}

// RowRef carries the row fields a ScopeFilter can constrain, for in-memory
// evaluation. Zero values mean "not applicable" (e.g. a subject with no home
// class).
type RowRef struct {
	ClassID        int64
	SubjectID      int64
	SubjectClassID int64
	ParentID       int64
	StudentID      int64
}

// Scope computes the visibility filter for a viewer listing a resource.
// A viewer whose role is scoped to an affiliation they do not have gets an
// empty result, never an error.
func Scope(viewer Viewer, resource Resource) ScopeFilter {
	switch resource {
	case ResourceClasses:
		return scopeClasses(viewer)
	case ResourceBehaviorScores:
		return scopeSubjectRows(viewer, true)
	case ResourceAwards, ResourceParentObservations, ResourceStudentSelfReports:
		return scopeSubjectRows(viewer, false)
	case ResourceRelationships:
		return scopeRelationships(viewer)
	}
	return ScopeFilter{None: true}
}

func scopeClasses(viewer Viewer) ScopeFilter {
	switch viewer.Role {
	case models.RoleSystemAdmin, models.RolePrincipal, models.RoleDirector:
		return ScopeFilter{All: true}
	case models.RoleTeachingTeacher:
		return classSet(viewer.TeachingClassIDs)
	case models.RoleClassTeacher:
		return classSet(viewer.LedClassIDs)
	case models.RoleStudent:
		if viewer.HomeClassID == nil {
			return ScopeFilter{None: true}
		}
		return ScopeFilter{ClassIDs: []int64{*viewer.HomeClassID}}
	}
	return ScopeFilter{None: true}
}

// scopeSubjectRows covers rows that have a student subject: behavior scores,
// awards, observations and self-reports. Scores carry their own class column,
// so a teaching teacher is scoped by it; for the other resources the teacher
// is scoped by the subject's home class instead.
func scopeSubjectRows(viewer Viewer, hasClassColumn bool) ScopeFilter {
	switch viewer.Role {
	case models.RoleSystemAdmin, models.RolePrincipal, models.RoleDirector, models.RoleMoralSupervisor:
		return ScopeFilter{All: true}
	case models.RoleStudent:
		return ScopeFilter{SubjectIDs: []int64{viewer.UserID}}
	case models.RoleParent:
		if len(viewer.ChildIDs) == 0 {
			return ScopeFilter{None: true}
		}
		return ScopeFilter{SubjectIDs: viewer.ChildIDs}
	case models.RoleClassTeacher:
		if len(viewer.LedClassIDs) == 0 {
			return ScopeFilter{None: true}
		}
		return ScopeFilter{SubjectClassIDs: viewer.LedClassIDs}
	case models.RoleTeachingTeacher:
		if len(viewer.TeachingClassIDs) == 0 {
			return ScopeFilter{None: true}
		}
		if hasClassColumn {
			return ScopeFilter{ClassIDs: viewer.TeachingClassIDs}
		}
		return ScopeFilter{SubjectClassIDs: viewer.TeachingClassIDs}
	}
	return ScopeFilter{None: true}
}

func scopeRelationships(viewer Viewer) ScopeFilter {
	switch viewer.Role {
	case models.RoleSystemAdmin, models.RolePrincipal, models.RoleDirector:
		return ScopeFilter{All: true}
	case models.RoleParent:
		id := viewer.UserID
		return ScopeFilter{ParentID: &id}
	case models.RoleStudent:
		id := viewer.UserID
		return ScopeFilter{StudentID: &id}
	}
	return ScopeFilter{None: true}
}

func classSet(ids []int64) ScopeFilter {
	if len(ids) == 0 {
		return ScopeFilter{None: true}
	}
	return ScopeFilter{ClassIDs: ids}
}

// Matches evaluates the filter against a row in memory. Applying it any number
// of times yields the same result; filters carry no state.
func (f ScopeFilter) Matches(row RowRef) bool {
	switch {
	case f.All:
		return true
	case f.None:
		return false
	case len(f.ClassIDs) > 0:
		return containsID(f.ClassIDs, row.ClassID)
	case len(f.SubjectIDs) > 0:
		return containsID(f.SubjectIDs, row.SubjectID)
	case len(f.SubjectClassIDs) > 0:
		return containsID(f.SubjectClassIDs, row.SubjectClassID)
	case f.ParentID != nil:
		return row.ParentID == *f.ParentID
	case f.StudentID != nil:
		return row.StudentID == *f.StudentID
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
