package contact

import (
	"bytes"
	"fmt"
	"net/mail"
	"text/template"
)

// Lead fields arrive HTML-escaped, so bodies use text/template and are
// interpolated as-is.
var (
	alertBody = template.Must(template.New("alert").Parse(`
<h3>PORTFOLIO MESSAGE</h3>
<p><strong>Name:</strong> {{.Lead.Name}}</p>
<p><strong>Email:</strong> {{.Lead.Email}}</p>
<p><strong>Message:</strong> {{.Lead.Message}}</p>
`))

	confirmationBody = template.Must(template.New("confirmation").Parse(`
<p>Hi {{.Lead.Name}},</p>
<p>Thank you for reaching out! This automated email confirms that your message has been successfully received.</p>
<p>I am reviewing your inquiry now and will provide a personalized response within 48 business hours.</p>
<hr style="border: 1px dashed #ccc;">
<h4>Your Message for Reference:</h4>
<p style="white-space: pre-wrap; background-color: #f7f7f7; padding: 10px; border-radius: 5px;">{{.Lead.Message}}</p>
<hr>
<p>Kind Regards,</p>
<p>{{.Owner}}</p>
`))
)

type bodyData struct {
	Lead  Lead
	Owner string
}

// Composer builds outbound messages for a lead.
type Composer struct {
	From      string // formatted sender, e.g. "Site <me@example.com>"
	AlertTo   string
	OwnerName string
}

// NewComposer formats the sender header from a display name and address.
func NewComposer(senderName, senderAddress, alertTo, ownerName string) Composer {
	from := (&mail.Address{Name: senderName, Address: senderAddress}).String()
	return Composer{From: from, AlertTo: alertTo, OwnerName: ownerName}
}

// Alert builds the lead notification for the site owner. Replies go to the
// submitter.
func (c Composer) Alert(lead Lead) (Email, error) {
	html, err := render(alertBody, bodyData{Lead: lead, Owner: c.OwnerName})
	if err != nil {
		return Email{}, err
	}
	return Email{
		From:    c.From,
		To:      c.AlertTo,
		ReplyTo: lead.Address,
		Subject: fmt.Sprintf("[ACTION REQUIRED] NEW PORTFOLIO LEAD from %s", lead.Name),
		HTML:    html,
	}, nil
}

// Confirmation builds the auto-reply that echoes the submitter's message.
func (c Composer) Confirmation(lead Lead) (Email, error) {
	html, err := render(confirmationBody, bodyData{Lead: lead, Owner: c.OwnerName})
	if err != nil {
		return Email{}, err
	}
	return Email{
		From:    c.From,
		To:      lead.Address,
		Subject: fmt.Sprintf("Message Received: Thank you for contacting %s", c.OwnerName),
		HTML:    html,
	}, nil
}

func render(t *template.Template, data bodyData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
