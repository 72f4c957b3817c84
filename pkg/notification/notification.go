// Package notification dispatches multi-channel notifications. The order
// pipeline uses the mail channel for the order summary and the push channel
// for feedback reminders delivered over the websocket hub.
//
// Define a notification:
//
//	type OrderPlaced struct { Order models.Order }
//	func (n *OrderPlaced) Via() []string { return []string{"mail"} }
//	func (n *OrderPlaced) ToMail() notification.MailData { ... }
//
// Send:
//
//	notification.Send(config.OrdersEmail(), &OrderPlaced{Order: order})
package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/citizenjaivik/jaivik/pkg/logger"
	"github.com/citizenjaivik/jaivik/pkg/mail"
	"github.com/citizenjaivik/jaivik/pkg/workerpool"
)

// MailData carries the data needed to send an email notification.
type MailData struct {
	To      string // overrides the notifiable address if set
	Subject string
	Body    string // HTML
	Text    string // plain-text fallback
}

// PushData carries an in-app push delivered over the websocket hub.
type PushData struct {
	Subject string // cart/profile subject the push targets
	Type    string
	Payload interface{}
}

// WebhookData carries an arbitrary JSON payload to POST to a URL.
type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

// Notification is the interface every notification must satisfy.
type Notification interface {
	// Via returns the list of channel names: "mail", "push", "webhook".
	Via() []string
}

// Mailable supports the mail channel.
type Mailable interface {
	ToMail() MailData
}

// Pushable supports the push channel.
type Pushable interface {
	ToPush() PushData
}

// Webhookable supports the webhook channel.
type Webhookable interface {
	ToWebhook() WebhookData
}

// pushFunc delivers PushData to connected clients. The websocket hub
// registers itself here at bootstrap; until then pushes are dropped with a
// warning.
var pushFunc func(PushData) error

// SetPusher registers the push delivery function.
func SetPusher(fn func(PushData) error) { pushFunc = fn }

// asyncPool bounds concurrent async sends.
var asyncPool = workerpool.New(16)

// Send dispatches the notification through all channels returned by Via().
// address is typically an email address used for the mail channel.
func Send(address string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := dispatch(address, channel, n); err != nil {
			logger.Error("notification: channel failed",
				"channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// SendAsync dispatches the notification on the bounded pool. When the pool
// is saturated the send happens inline rather than being dropped.
func SendAsync(address string, n Notification) {
	task := func() { Send(address, n) }
	if err := asyncPool.Submit(task); err != nil {
		task()
	}
}

func dispatch(address, channel string, n Notification) error {
	switch channel {
	case "mail":
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		return sendMail(address, m.ToMail())

	case "push":
		p, ok := n.(Pushable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Pushable", n)
		}
		return sendPush(p.ToPush())

	case "webhook":
		wh, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Webhookable", n)
		}
		return sendWebhook(wh.ToWebhook())

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

func sendMail(address string, d MailData) error {
	to := d.To
	if to == "" {
		to = address
	}

	body := d.Body
	if body == "" {
		body = d.Text
	}

	return mail.To(to).Subject(d.Subject).Body(body).Send()
}

func sendPush(d PushData) error {
	if pushFunc == nil {
		logger.Warn("notification: push channel not wired, dropping", "type", d.Type)
		return nil
	}
	return pushFunc(d)
}

func sendWebhook(d WebhookData) error {
	if d.URL == "" {
		return fmt.Errorf("notification: webhook URL is empty")
	}

	raw, err := json.Marshal(d.Payload)
	if err != nil {
		return fmt.Errorf("notification: webhook marshal: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.URL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("notification: webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("notification: webhook send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification: webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
