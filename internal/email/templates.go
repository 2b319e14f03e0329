package email

import (
	"bytes"
	"html/template"
)

var (
	otpTmpl = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
  <h2>Verify your email</h2>
  <p>Hello {{.Name}},</p>
  <p>Use the code below to finish creating your account. It expires in 10 minutes.</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
  <p>If you did not request this, you can ignore this email.</p>
</div>`))

	resetTmpl = template.Must(template.New("reset").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
  <h2>Reset your password</h2>
  <p>Hello {{.Name}},</p>
  <p>Click the link below to choose a new password. The link expires in 15 minutes.</p>
  <p><a href="{{.Link}}">Reset password</a></p>
  <p>If you did not request a reset, no action is needed.</p>
</div>`))

	receivedTmpl = template.Must(template.New("received").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
  <h2>Application received</h2>
  <p>Dear {{.Name}},</p>
  <p>We have received your {{.Kind}} application{{if .Title}} for <strong>{{.Title}}</strong>{{end}}.
  Our team will review it and keep you posted on its progress.</p>
  <p>Thank you for choosing Atithi Consultant Services.</p>
</div>`))

	guestAlertTmpl = template.Must(template.New("guestAlert").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
  <h2>New guest {{.Kind}} application</h2>
  <p>A {{.Kind}} application was submitted without an account.</p>
  <ul>
    <li>Name: {{.Name}}</li>
    <li>Email: {{.Email}}</li>
    <li>Reference: {{.Title}}</li>
  </ul>
  <p>Review it in the admin dashboard.</p>
</div>`))

	inquiryAlertTmpl = template.Must(template.New("inquiryAlert").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
  <h2>New contact inquiry</h2>
  <ul>
    <li>Name: {{.Name}}</li>
    <li>Email: {{.Email}}</li>
    <li>Phone: {{.Phone}}</li>
    <li>Subject: {{.Subject}}</li>
  </ul>
  <p>{{.Message}}</p>
</div>`))

	inquiryReplyTmpl = template.Must(template.New("inquiryReply").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
  <p>Dear {{.Name}},</p>
  <p>{{.Reply}}</p>
  <hr>
  <p style="color: #777;">In reply to your inquiry: "{{.Subject}}"</p>
  <p>Atithi Consultant Services</p>
</div>`))
)

func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	// Templates are parsed at init, execution over plain structs cannot fail.
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

func OTPBody(name, code string) string {
	return render(otpTmpl, struct{ Name, Code string }{name, code})
}

func PasswordResetBody(name, link string) string {
	return render(resetTmpl, struct{ Name, Link string }{name, link})
}

func ApplicationReceivedBody(name, kind, title string) string {
	return render(receivedTmpl, struct{ Name, Kind, Title string }{name, kind, title})
}

func GuestApplicationAlertBody(kind, name, email, title string) string {
	return render(guestAlertTmpl, struct{ Kind, Name, Email, Title string }{kind, name, email, title})
}

func InquiryAlertBody(name, email, phone, subject, message string) string {
	return render(inquiryAlertTmpl, struct{ Name, Email, Phone, Subject, Message string }{name, email, phone, subject, message})
}

func InquiryReplyBody(name, subject, reply string) string {
	return render(inquiryReplyTmpl, struct{ Name, Subject, Reply string }{name, subject, reply})
}
