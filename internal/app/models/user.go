package models

import (
	"time"
)

// Role defines the fixed set of actor categories in the system.
type Role string

const (
	RoleStudent         Role = "student"
	RoleParent          Role = "parent"
	RoleTeachingTeacher Role = "teaching_teacher"
	RoleClassTeacher    Role = "class_teacher"
	RoleMoralSupervisor Role = "moral_education_supervisor"
	RolePrincipal       Role = "principal"
	RoleDirector        Role = "director"
	RoleSystemAdmin     Role = "system_administrator"
)

// AllRoles lists every valid role code.
var AllRoles = []Role{
	RoleStudent,
	RoleParent,
	RoleTeachingTeacher,
	RoleClassTeacher,
	RoleMoralSupervisor,
	RolePrincipal,
	RoleDirector,
	RoleSystemAdmin,
}

// Valid reports whether r is one of the eight role codes.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// User defines the user model based on the 'users' table.
// SchoolClassID is the home class for students; TeachingClassIDs holds the
// subject classes assigned to a teaching teacher (loaded from the
// user_teaching_classes join table, not a column).
type User struct {
	ID               int64     `json:"id" db:"id" example:"1"`
	Username         string    `json:"username" db:"username" example:"zhang.wei"`
	Email            string    `json:"email" db:"email" example:"zhang.wei@school.edu"`
	Password         string    `json:"-" db:"password"` // hashed, excluded from JSON
	FirstName        string    `json:"firstName" db:"first_name" example:"Wei"`
	LastName         string    `json:"lastName" db:"last_name" example:"Zhang"`
	Role             Role      `json:"role" db:"role" example:"student"`
	SchoolClassID    *int64    `json:"schoolClassId,omitempty" db:"school_class_id"`
	IsActive         bool      `json:"isActive" db:"is_active" example:"true"`
	DateJoined       time.Time `json:"dateJoined" db:"date_joined"`
	TeachingClassIDs []int64   `json:"teachingClassIds,omitempty"`
}

// FullName returns the display name used in reports and notifications.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
