package models

// Severity of a user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a toast shown to the user. Delivery is fire-and-forget.
type Notification struct {
	Severity    Severity
	Title       string
	Description string
}
