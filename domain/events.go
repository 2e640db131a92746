package domain

import "time"

// EventType defines the type of session lifecycle event
type EventType string

const (
	LoggedInEvent           EventType = "SESSION_LOGGED_IN"
	LoggedOutEvent          EventType = "SESSION_LOGGED_OUT"
	RestoredEvent           EventType = "SESSION_RESTORED"
	RefreshedEvent          EventType = "SESSION_REFRESHED"
	RefreshFailedEvent      EventType = "SESSION_REFRESH_FAILED"
	RemoteLogoutFailedEvent EventType = "REMOTE_LOGOUT_FAILED"
	StoreWriteFailedEvent   EventType = "STORE_WRITE_FAILED"
)

// Event is a session lifecycle notification for observability. The manager
// publishes these on a non-blocking channel; a remote logout failure or a
// store write failure arrives here rather than as a blocking error.
type Event struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	ErrorMsg  string    `json:"error_msg,omitempty"`
	Success   bool      `json:"success"`
}

// NewEvent creates an event with common fields populated
func NewEvent(eventType EventType, user *User) Event {
	ev := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
	if user != nil {
		ev.UserID = user.ID
		ev.Email = user.Email
	}
	return ev
}

// WithError marks the event failed and records the cause
func (e Event) WithError(err error) Event {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}
