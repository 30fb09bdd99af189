package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/selinay/moraled/internal/app/models"
)

func int64p(v int64) *int64 { return &v }

func TestScopeClasses(t *testing.T) {
	tests := []struct {
		name   string
		viewer Viewer
		want   ScopeFilter
	}{
		{
			name:   "admin sees all",
			viewer: Viewer{UserID: 1, Role: models.RoleSystemAdmin},
			want:   ScopeFilter{All: true},
		},
		{
			name:   "principal sees all",
			viewer: Viewer{UserID: 2, Role: models.RolePrincipal},
			want:   ScopeFilter{All: true},
		},
		{
			name:   "director sees all",
			viewer: Viewer{UserID: 3, Role: models.RoleDirector},
			want:   ScopeFilter{All: true},
		},
		{
			name:   "teaching teacher sees teaching set",
			viewer: Viewer{UserID: 4, Role: models.RoleTeachingTeacher, TeachingClassIDs: []int64{10, 11}},
			want:   ScopeFilter{ClassIDs: []int64{10, 11}},
		},
		{
			name:   "class teacher sees led set",
			viewer: Viewer{UserID: 5, Role: models.RoleClassTeacher, LedClassIDs: []int64{7}},
			want:   ScopeFilter{ClassIDs: []int64{7}},
		},
		{
			name:   "student sees own home class",
			viewer: Viewer{UserID: 6, Role: models.RoleStudent, HomeClassID: int64p(3)},
			want:   ScopeFilter{ClassIDs: []int64{3}},
		},
		{
			name:   "student without home class sees none",
			viewer: Viewer{UserID: 6, Role: models.RoleStudent},
			want:   ScopeFilter{None: true},
		},
		{
			name:   "teacher without classes sees none",
			viewer: Viewer{UserID: 4, Role: models.RoleTeachingTeacher},
			want:   ScopeFilter{None: true},
		},
		{
			name:   "parent sees no classes",
			viewer: Viewer{UserID: 8, Role: models.RoleParent, ChildIDs: []int64{6}},
			want:   ScopeFilter{None: true},
		},
		{
			name:   "moral supervisor sees no classes",
			viewer: Viewer{UserID: 9, Role: models.RoleMoralSupervisor},
			want:   ScopeFilter{None: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scope(tt.viewer, ResourceClasses))
		})
	}
}

func TestScopeSubjectRows(t *testing.T) {
	tests := []struct {
		name     string
		viewer   Viewer
		resource Resource
		want     ScopeFilter
	}{
		{
			name:     "moral supervisor sees all scores",
			viewer:   Viewer{UserID: 9, Role: models.RoleMoralSupervisor},
			resource: ResourceBehaviorScores,
			want:     ScopeFilter{All: true},
		},
		{
			name:     "student sees only own scores",
			viewer:   Viewer{UserID: 6, Role: models.RoleStudent, HomeClassID: int64p(3)},
			resource: ResourceBehaviorScores,
			want:     ScopeFilter{SubjectIDs: []int64{6}},
		},
		{
			name:     "parent sees linked children",
			viewer:   Viewer{UserID: 8, Role: models.RoleParent, ChildIDs: []int64{6, 12}},
			resource: ResourceAwards,
			want:     ScopeFilter{SubjectIDs: []int64{6, 12}},
		},
		{
			name:     "parent without links sees none",
			viewer:   Viewer{UserID: 8, Role: models.RoleParent},
			resource: ResourceParentObservations,
			want:     ScopeFilter{None: true},
		},
		{
			name:     "class teacher scoped by subject home class",
			viewer:   Viewer{UserID: 5, Role: models.RoleClassTeacher, LedClassIDs: []int64{7}},
			resource: ResourceBehaviorScores,
			want:     ScopeFilter{SubjectClassIDs: []int64{7}},
		},
		{
			name:     "teaching teacher scoped by score class column",
			viewer:   Viewer{UserID: 4, Role: models.RoleTeachingTeacher, TeachingClassIDs: []int64{10}},
			resource: ResourceBehaviorScores,
			want:     ScopeFilter{ClassIDs: []int64{10}},
		},
		{
			name:     "teaching teacher scoped by subject class for reports",
			viewer:   Viewer{UserID: 4, Role: models.RoleTeachingTeacher, TeachingClassIDs: []int64{10}},
			resource: ResourceStudentSelfReports,
			want:     ScopeFilter{SubjectClassIDs: []int64{10}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scope(tt.viewer, tt.resource))
		})
	}
}

func TestScopeRelationships(t *testing.T) {
	parent := Viewer{UserID: 8, Role: models.RoleParent}
	student := Viewer{UserID: 6, Role: models.RoleStudent}
	teacher := Viewer{UserID: 5, Role: models.RoleClassTeacher, LedClassIDs: []int64{7}}

	assert.Equal(t, ScopeFilter{All: true}, Scope(Viewer{UserID: 2, Role: models.RolePrincipal}, ResourceRelationships))
	assert.Equal(t, ScopeFilter{ParentID: int64p(8)}, Scope(parent, ResourceRelationships))
	assert.Equal(t, ScopeFilter{StudentID: int64p(6)}, Scope(student, ResourceRelationships))
	assert.Equal(t, ScopeFilter{None: true}, Scope(teacher, ResourceRelationships))
}

// Applying a filter to rows it already selected returns those rows unchanged.
func TestScopeIdempotent(t *testing.T) {
	viewer := Viewer{UserID: 8, Role: models.RoleParent, ChildIDs: []int64{6, 12}}
	filter := Scope(viewer, ResourceBehaviorScores)

	rows := []RowRef{
		{SubjectID: 6, ClassID: 10, SubjectClassID: 3},
		{SubjectID: 7, ClassID: 10, SubjectClassID: 3},
		{SubjectID: 12, ClassID: 11, SubjectClassID: 4},
	}

	var once []RowRef
	for _, row := range rows {
		if filter.Matches(row) {
			once = append(once, row)
		}
	}
	var twice []RowRef
	for _, row := range once {
		if filter.Matches(row) {
			twice = append(twice, row)
		}
	}

	assert.Equal(t, []RowRef{rows[0], rows[2]}, once)
	assert.Equal(t, once, twice)
}

func TestFilterMatches(t *testing.T) {
	tests := []struct {
		name   string
		filter ScopeFilter
		row    RowRef
		want   bool
	}{
		{"all matches anything", ScopeFilter{All: true}, RowRef{}, true},
		{"none matches nothing", ScopeFilter{None: true}, RowRef{SubjectID: 1}, false},
		{"zero filter matches nothing", ScopeFilter{}, RowRef{SubjectID: 1}, false},
		{"class hit", ScopeFilter{ClassIDs: []int64{10}}, RowRef{ClassID: 10}, true},
		{"class miss", ScopeFilter{ClassIDs: []int64{10}}, RowRef{ClassID: 11}, false},
		{"subject class without home class", ScopeFilter{SubjectClassIDs: []int64{7}}, RowRef{SubjectClassID: 0}, false},
		{"parent side", ScopeFilter{ParentID: int64p(8)}, RowRef{ParentID: 8, StudentID: 6}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.row))
		})
	}
}
