package models

import (
	"time"
)

// StudentParentRelationship links a student to a parent. (StudentID, ParentID)
// is unique; each side is constrained to the matching role.
type StudentParentRelationship struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	ParentID  int64     `json:"parentId" db:"parent_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Student   *User     `json:"student,omitempty"` // relation, no db tag
	Parent    *User     `json:"parent,omitempty"`  // relation, no db tag
}
