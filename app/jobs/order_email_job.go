// Package jobs holds the background jobs dispatched through pkg/queue.
package jobs

import (
	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/app/notifications"
	"github.com/citizenjaivik/jaivik/config"
	"github.com/citizenjaivik/jaivik/pkg/notification"
	"github.com/citizenjaivik/jaivik/pkg/queue"
)

// OrderEmailJob mails the order summary to the shop inbox off the request
// path. Checkout never waits on SMTP.
type OrderEmailJob struct {
	Order models.Order `json:"order"`
}

func (j *OrderEmailJob) Handle() error {
	errs := notification.Send(config.OrdersEmail(), notifications.NewOrderPlaced(j.Order))
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// RegisterAll makes every job type known to the queue. Called once at boot
// and by the queue:work command.
func RegisterAll() {
	queue.Register("*jobs.OrderEmailJob", func() queue.Job { return &OrderEmailJob{} })
}
