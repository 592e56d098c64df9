package entity

// NotificationLevel is the severity of a notification
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "INFO"
	LevelSuccess NotificationLevel = "SUCCESS"
	LevelWarning NotificationLevel = "WARNING"
	LevelError   NotificationLevel = "ERROR"
)

// DefaultPosition is where notifications are shown when nothing else is asked for
const DefaultPosition = "top"

// Notification is a message shown to the user
type Notification struct {
	ID          string            `json:"id"`
	Message     string            `json:"message"`
	Level       NotificationLevel `json:"level"`
	Dismissible bool              `json:"dismissible"`
	Position    string            `json:"position"`
}
