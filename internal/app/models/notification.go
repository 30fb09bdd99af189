package models

import (
	"time"
)

// NotificationType is the display category of a notification.
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)

// Notification is an in-app message for a single user, optionally referencing
// the entity it was triggered by (polymorphic type string + id).
type Notification struct {
	ID                int64            `json:"id" db:"id"`
	UserID            int64            `json:"userId" db:"user_id"`
	Title             string           `json:"title" db:"title"`
	Message           string           `json:"message" db:"message"`
	Type              NotificationType `json:"type" db:"notification_type" example:"info"`
	RelatedObjectType *string          `json:"relatedObjectType,omitempty" db:"related_object_type"`
	RelatedObjectID   *int64           `json:"relatedObjectId,omitempty" db:"related_object_id"`
	IsRead            bool             `json:"isRead" db:"is_read"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
}
