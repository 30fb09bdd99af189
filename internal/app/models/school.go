package models

// ClassType distinguishes home classes from subject classes.
type ClassType string

const (
	ClassTypeHome    ClassType = "home_class"
	ClassTypeSubject ClassType = "subject_class"
)

// Valid reports whether t is a known class type.
func (t ClassType) Valid() bool {
	return t == ClassTypeHome || t == ClassTypeSubject
}

// Grade defines the grade model based on the 'grades' table.
type Grade struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name" example:"Grade 7"`
	Description string `json:"description" db:"description"`
}

// SchoolClass defines the class model based on the 'school_classes' table.
// (Name, GradeID) is unique. ClassTeacherIDs holds the class teachers assigned
// through the class_teachers join table.
type SchoolClass struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name" example:"7-A"`
	GradeID         int64     `json:"gradeId" db:"grade_id"`
	ClassType       ClassType `json:"classType" db:"class_type" example:"home_class"`
	ClassTeacherIDs []int64   `json:"classTeacherIds,omitempty"`
	Grade           *Grade    `json:"grade,omitempty"` // relation, no db tag
}
