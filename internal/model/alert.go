package model

import "time"

type AlertStatus string

const (
	AlertInfo    AlertStatus = "info"
	AlertSuccess AlertStatus = "success"
	AlertWarning AlertStatus = "warning"
	AlertError   AlertStatus = "error"
)

// Alert is one toast entry in the notification queue.
type Alert struct {
	ID        string      `json:"id"`
	Message   string      `json:"message"`
	Status    AlertStatus `json:"status"`
	ExpiresAt time.Time   `json:"expiresAt"`
}
