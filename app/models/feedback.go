package models

// FeedbackNotificationType tags schedule entries so the client can route them.
const FeedbackNotificationType = "feedback_reminder"

// FeedbackNotification is one pending feedback prompt. ScheduledTime is the
// order date plus a fixed offset; once the prompt has been surfaced Shown is
// flipped and the entry is never surfaced again.
type FeedbackNotification struct {
	OrderID       string `json:"orderId"`
	OrderDate     string `json:"orderDate"`
	ScheduledTime string `json:"scheduledTime"`
	Shown         bool   `json:"shown"`
	Type          string `json:"type"`
}
