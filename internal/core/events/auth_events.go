package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLoginSucceeded = "auth.login_succeeded"
	EventTypeLoginFailed    = "auth.login_failed"
	EventTypeTokenRefreshed = "auth.token_refreshed"
	EventTypeUserCreated    = "user.created"
	EventTypeUserDeleted    = "user.deleted"
)

// AuditEventTypes lists every event the audit log subscribes to.
var AuditEventTypes = []string{
	EventTypeLoginSucceeded,
	EventTypeLoginFailed,
	EventTypeTokenRefreshed,
	EventTypeUserCreated,
	EventTypeUserDeleted,
}

type LoginSucceededEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

func NewLoginSucceededEvent(userID int64, email string) *LoginSucceededEvent {
	return &LoginSucceededEvent{
		BaseEvent: newBase(EventTypeLoginSucceeded, map[string]interface{}{
			"user_id": userID,
			"email":   email,
		}),
		UserID: userID,
		Email:  email,
	}
}

type LoginFailedEvent struct {
	BaseEvent
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

func NewLoginFailedEvent(email, reason string) *LoginFailedEvent {
	return &LoginFailedEvent{
		BaseEvent: newBase(EventTypeLoginFailed, map[string]interface{}{
			"email":  email,
			"reason": reason,
		}),
		Email:  email,
		Reason: reason,
	}
}

type TokenRefreshedEvent struct {
	BaseEvent
	UserID int64 `json:"user_id"`
}

func NewTokenRefreshedEvent(userID int64) *TokenRefreshedEvent {
	return &TokenRefreshedEvent{
		BaseEvent: newBase(EventTypeTokenRefreshed, map[string]interface{}{
			"user_id": userID,
		}),
		UserID: userID,
	}
}

type UserCreatedEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func NewUserCreatedEvent(userID int64, email, role string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: newBase(EventTypeUserCreated, map[string]interface{}{
			"user_id": userID,
			"email":   email,
			"role":    role,
		}),
		UserID: userID,
		Email:  email,
		Role:   role,
	}
}

type UserDeletedEvent struct {
	BaseEvent
	UserID int64 `json:"user_id"`
}

func NewUserDeletedEvent(userID int64) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseEvent: newBase(EventTypeUserDeleted, map[string]interface{}{
			"user_id": userID,
		}),
		UserID: userID,
	}
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}
