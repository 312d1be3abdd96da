// Package emailtmpl renders the notification email bodies. Every renderer is
// a pure function of its data struct so callers decide what to do with the
// HTML string.
package emailtmpl

import (
	"bytes"
	"html/template"
)

type PaymentApprovedData struct {
	Name          string
	ItemTypeLabel string
	ItemNames     []string
	Amount        float64
	AdminNotes    string
	AccessURL     string
}

type PaymentRejectedData struct {
	Name          string
	ItemTypeLabel string
	ItemNames     []string
	Amount        float64
	Reason        string
	ResubmitURL   string
}

type ResumeApprovedData struct {
	Name       string
	TargetRole string
	Price      float64
	AdminNotes string
	ChatURL    string
}

type ResumeRejectedData struct {
	Name        string
	Reason      string
	ResubmitURL string
}

type ResumeDeliveredData struct {
	Name      string
	ResumeURL string
}

var (
	paymentApprovedTmpl = template.Must(template.New("payment-approved").Parse(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2 style="color:#16a34a">Payment Approved</h2>
  <p>Hi {{.Name}},</p>
  <p>Your payment of <strong>{{printf "%.2f" .Amount}}</strong> for the following {{.ItemTypeLabel}} has been approved:</p>
  <ul>
    {{range .ItemNames}}<li>{{.}}</li>
    {{end}}
  </ul>
  {{if .AdminNotes}}<p>Note from our team: {{.AdminNotes}}</p>{{end}}
  <p><a href="{{.AccessURL}}" style="background:#16a34a;color:#fff;padding:10px 20px;text-decoration:none;border-radius:4px">Start learning</a></p>
</div>`))

	paymentRejectedTmpl = template.Must(template.New("payment-rejected").Parse(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2 style="color:#dc2626">Payment Rejected</h2>
  <p>Hi {{.Name}},</p>
  <p>Unfortunately we could not verify your payment of <strong>{{printf "%.2f" .Amount}}</strong> for the following {{.ItemTypeLabel}}:</p>
  <ul>
    {{range .ItemNames}}<li>{{.}}</li>
    {{end}}
  </ul>
  <p>Reason: {{.Reason}}</p>
  <p><a href="{{.ResubmitURL}}" style="background:#dc2626;color:#fff;padding:10px 20px;text-decoration:none;border-radius:4px">Submit a new payment proof</a></p>
</div>`))

	resumeApprovedTmpl = template.Must(template.New("resume-approved").Parse(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2 style="color:#16a34a">Resume Service Payment Approved</h2>
  <p>Hi {{.Name}},</p>
  <p>Your payment of <strong>{{printf "%.2f" .Price}}</strong> for the resume writing service{{if .TargetRole}} (target role: {{.TargetRole}}){{end}} has been approved. Our writer will reach out through your chat channel.</p>
  {{if .AdminNotes}}<p>Note from our team: {{.AdminNotes}}</p>{{end}}
  <p><a href="{{.ChatURL}}" style="background:#16a34a;color:#fff;padding:10px 20px;text-decoration:none;border-radius:4px">Open chat</a></p>
</div>`))

	resumeRejectedTmpl = template.Must(template.New("resume-rejected").Parse(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2 style="color:#dc2626">Resume Service Payment Rejected</h2>
  <p>Hi {{.Name}},</p>
  <p>Unfortunately we could not verify your payment for the resume writing service.</p>
  <p>Reason: {{.Reason}}</p>
  <p><a href="{{.ResubmitURL}}" style="background:#dc2626;color:#fff;padding:10px 20px;text-decoration:none;border-radius:4px">Submit a new payment proof</a></p>
</div>`))

	resumeDeliveredTmpl = template.Must(template.New("resume-delivered").Parse(`
<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h2 style="color:#16a34a">Your Resume Is Ready</h2>
  <p>Hi {{.Name}},</p>
  <p>Your completed resume is ready for download.</p>
  <p><a href="{{.ResumeURL}}" style="background:#16a34a;color:#fff;padding:10px 20px;text-decoration:none;border-radius:4px">Download resume</a></p>
</div>`))
)

func PaymentApprovedHTML(d PaymentApprovedData) (string, error) {
	return render(paymentApprovedTmpl, d)
}

func PaymentRejectedHTML(d PaymentRejectedData) (string, error) {
	return render(paymentRejectedTmpl, d)
}

func ResumeApprovedHTML(d ResumeApprovedData) (string, error) {
	return render(resumeApprovedTmpl, d)
}

func ResumeRejectedHTML(d ResumeRejectedData) (string, error) {
	return render(resumeRejectedTmpl, d)
}

func ResumeDeliveredHTML(d ResumeDeliveredData) (string, error) {
	return render(resumeDeliveredTmpl, d)
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
