// Package notifications holds the concrete notification types the storefront
// sends: the order confirmation mail to the shop inbox and the feedback
// reminder push to the buyer.
package notifications

import (
	"fmt"
	"strings"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/notification"
)

// OrderPlaced mails the order summary to the shop's orders inbox so the team
// can pack it. Best-effort: a lost mail never affects the recorded order.
type OrderPlaced struct {
	Order models.Order
}

func NewOrderPlaced(order models.Order) *OrderPlaced {
	return &OrderPlaced{Order: order}
}

func (n *OrderPlaced) Via() []string { return []string{"mail"} }

func (n *OrderPlaced) ToMail() notification.MailData {
	o := n.Order

	var lines strings.Builder
	for _, item := range o.Items {
		fmt.Fprintf(&lines, "<tr><td>%s</td><td>%d × ₹%.2f</td><td>₹%.2f</td></tr>",
			item.Name, item.Quantity, item.Price, item.Total)
	}

	body := fmt.Sprintf(`
		<h2>New order %s</h2>
		<p>%s | %s | %s</p>
		<p>Deliver to: %s</p>
		<table>%s</table>
		<p>Subtotal ₹%.2f · Delivery ₹%.2f · <b>Total ₹%.2f</b></p>
		<p>Placed %s via %s</p>`,
		o.ID, o.Customer.Name, o.Customer.Mobile, o.Customer.Email,
		o.Address, lines.String(),
		o.Subtotal, o.DeliveryFee, o.TotalAmount,
		o.OrderDate, o.Platform,
	)

	return notification.MailData{
		Subject: fmt.Sprintf("New order %s - ₹%.2f", o.ID, o.TotalAmount),
		Body:    body,
		Text:    fmt.Sprintf("New order %s from %s, total ₹%.2f", o.ID, o.Customer.Name, o.TotalAmount),
	}
}
