package domain

import "time"

// AuthEventKind labels an entry in the authentication audit trail.
type AuthEventKind string

const (
	AuditLoginSuccess   AuthEventKind = "login_success"
	AuditLoginFailure   AuthEventKind = "login_failure"
	AuditRegistered     AuthEventKind = "registered"
	AuditLogout         AuthEventKind = "logout"
	AuditLogoutAll      AuthEventKind = "logout_all"
	AuditPasswordChange AuthEventKind = "password_change"
)

// AuthEvent records a single identity-related action for the audit trail.
// Events are persisted asynchronously and must never block a request.
type AuthEvent struct {
	Kind      AuthEventKind `json:"kind" bson:"kind"`
	AccountID string        `json:"account_id,omitempty" bson:"account_id,omitempty"`
	Email     string        `json:"email" bson:"email,omitempty"`
	At        time.Time     `json:"at" bson:"at"`
}
