package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"courtside/models"
)

var (
	receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<h2>Your booking is confirmed</h2>
<p>Hi {{.Name}},</p>
<p>You booked <strong>{{.Listing.Name}}</strong> ({{.Listing.Sport}}, {{.Listing.Location}}).</p>
<table cellpadding="6" style="border-collapse:collapse">
<tr><td>Date</td><td>{{.Booking.Date}}</td></tr>
<tr><td>Time</td><td>{{.Booking.Time.StartTime}} - {{.Booking.Time.EndTime}}</td></tr>
<tr><td>Price</td><td>AED {{.Booking.Time.Price}}</td></tr>
<tr><td>Payment</td><td>{{.Booking.PaymentOption}}</td></tr>
<tr><td>Reference</td><td>#{{.Listing.NumID}}</td></tr>
</table>
<p>See you on court.</p>
</body></html>`))

	cancellationTmpl = template.Must(template.New("cancellation").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<h2>Booking cancelled</h2>
<p>Hi {{.Name}},</p>
<p>Your booking at <strong>{{.Listing.Name}}</strong> on {{.Booking.Date}}
from {{.Booking.Time.StartTime}} to {{.Booking.Time.EndTime}} was cancelled{{if eq .CancelledBy "partner"}} by the venue{{end}}.</p>
</body></html>`))

	contactTmpl = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<h3>New contact message</h3>
<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p style="white-space:pre-wrap">{{.Message}}</p>
</body></html>`))

	linkTmpl = template.Must(template.New("link").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222">
<p>{{.Intro}}</p>
<p><a href="{{.Link}}">{{.Action}}</a></p>
<p>If you did not ask for this, you can ignore this email.</p>
</body></html>`))
)

type bookingView struct {
	Name        string
	Listing     models.Listing
	Booking     models.Booking
	CancelledBy string
}

type linkView struct {
	Intro  string
	Action string
	Link   string
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// RenderReceipt builds the confirmation email body for a new booking.
func RenderReceipt(name string, listing models.Listing, booking models.Booking) (string, error) {
	return render(receiptTmpl, bookingView{Name: name, Listing: listing, Booking: booking})
}

// RenderCancellation builds the email body sent when a booking is cancelled.
func RenderCancellation(name string, listing models.Listing, booking models.Booking, cancelledBy string) (string, error) {
	return render(cancellationTmpl, bookingView{Name: name, Listing: listing, Booking: booking, CancelledBy: cancelledBy})
}

func renderContact(msg models.ContactMessage) (string, error) {
	return render(contactTmpl, msg)
}
