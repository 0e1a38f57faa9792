package models

import "time"

type NotificationType string

const (
	NotificationResultApproved NotificationType = "result_approved"
	NotificationResultRejected NotificationType = "result_rejected"
	NotificationRegistration   NotificationType = "tournament_registration"
)

type Notification struct {
	ID                string           `json:"id"`
	UserID            string           `json:"user_id"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	IsRead            bool             `json:"is_read"`
	Type              NotificationType `json:"notification_type"`
	RelatedEntityID   *string          `json:"related_entity_id,omitempty"`
	RelatedEntityType *string          `json:"related_entity_type,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}
