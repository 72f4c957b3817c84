package notifications

import (
	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/notification"
)

// FeedbackReminder nudges the buyer to review a delivered order. Delivered
// as an in-app push over the websocket hub.
type FeedbackReminder struct {
	Subject  string
	Reminder models.FeedbackNotification
}

func NewFeedbackReminder(subject string, reminder models.FeedbackNotification) *FeedbackReminder {
	return &FeedbackReminder{Subject: subject, Reminder: reminder}
}

func (n *FeedbackReminder) Via() []string { return []string{"push"} }

func (n *FeedbackReminder) ToPush() notification.PushData {
	return notification.PushData{
		Subject: n.Subject,
		Type:    n.Reminder.Type,
		Payload: n.Reminder,
	}
}
